package hr

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Policy is one HR policy document. Content is markdown; RenderPolicyHTML
// converts it for the API.
type Policy struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Content     string `json:"content"`
	LastUpdated string `json:"lastUpdated"`
	Version     string `json:"version"`
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Policies returns the policy catalog. The documents are static; a future
// version may load them from the store.
func (s *Service) Policies() []*Policy {
	return policyCatalog
}

// GetPolicy returns one policy by id, or nil.
func (s *Service) GetPolicy(id string) *Policy {
	for _, policy := range policyCatalog {
		if policy.ID == id {
			return policy
		}
	}
	return nil
}

// RenderPolicyHTML renders a policy's markdown body to HTML.
func RenderPolicyHTML(policy *Policy) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(policy.Content), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render policy")
	}
	return buf.String(), nil
}

var policyCatalog = []*Policy{
	{
		ID:       "attendance-policy",
		Title:    "Attendance Policy",
		Category: "Attendance",
		Content: `**Working Hours:**
- Standard working hours: 9:00 AM to 6:00 PM (Monday to Friday)
- Lunch break: 1:00 PM to 2:00 PM
- Total working hours per day: 8 hours

**Attendance Requirements:**
- Employees must clock in/out using the HRMS system
- Late arrival (after 9:15 AM) requires manager approval
- Early departure requires prior approval
- Minimum 95% attendance required per month

**Remote Work:**
- Maximum 2 days per week (with manager approval)
- Must maintain same productivity standards
- Regular check-ins required

**Consequences:**
- 3 late arrivals = Written warning
- Attendance below 90% = Performance review
- Unauthorized absence = Salary deduction
`,
		LastUpdated: "2024-01-15",
		Version:     "2.1",
	},
	{
		ID:       "leave-policy",
		Title:    "Leave Policy",
		Category: "Leave Management",
		Content: `**Annual Leave Entitlement:**
- Casual Leave: 12 days per year
- Sick Leave: 10 days per year
- Annual Leave: 21 days per year

**Leave Application Process:**
1. Submit request through HRMS at least 3 days in advance
2. Manager approval required
3. HR confirmation for leaves > 5 days
4. Medical certificate required for sick leave > 3 days

**Leave Carry Forward:**
- Maximum 5 days can be carried to next year
- Unused leave expires on December 31st
- No cash compensation for unused leave

**Emergency Leave:**
- Can be applied retrospectively with valid reason
- Manager discretion for approval
- Documentation required within 48 hours
`,
		LastUpdated: "2024-01-10",
		Version:     "1.8",
	},
	{
		ID:       "compensation-policy",
		Title:    "Compensation & Benefits",
		Category: "Compensation",
		Content: `**Salary Structure:**
- Annual salary reviews
- Performance-based increments
- Market benchmarking
- Transparent pay bands

**Expense Reimbursement:**
- Claims submitted through HRMS with receipts
- Manager approval required for all claims
- Claims above $500 require HR review
- Reimbursement within two pay cycles

**Benefits Package:**
- Health insurance (100% premium covered)
- Life insurance (2x annual salary)
- Retirement savings plan (401k with 6% match)

**Bonus Structure:**
- Annual performance bonus (0-20% of salary)
- Spot bonuses for exceptional work
- Referral bonuses: $2000 per successful hire
`,
		LastUpdated: "2024-01-12",
		Version:     "1.9",
	},
}
