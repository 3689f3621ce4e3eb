package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Identity:
		o.printIdentity(v)
	case LinkResult:
		o.printLinkResult(v)
	case PendingReferral:
		o.printPendingReferral(v)
	case CompletedReferral:
		o.printCompletedReferral(v)
	case []CompletedReferral:
		o.printCompletedReferrals(v)
	case Notification:
		o.printNotification(v)
	case []Notification:
		o.printNotifications(v)
	case AssignResult:
		o.printAssignResult(v)
	case FounderAssignment:
		o.printFounderAssignment(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Identity response type (matches agent API)
type Identity struct {
	DeviceIdentity string `json:"device_identity"`
}

// LinkResult response type
type LinkResult struct {
	ReferralCode string `json:"referral_code"`
	Stored       bool   `json:"stored"`
}

// PendingReferral response type
type PendingReferral struct {
	ReferralCode   string `json:"referral_code"`
	Source         string `json:"source"`
	DeviceIdentity string `json:"device_identity"`
	CreatedAt      string `json:"created_at"`
}

// CompletedReferral response type
type CompletedReferral struct {
	ReferralCode     string `json:"referral_code"`
	ReferredUserID   string `json:"referred_user_id"`
	SubscriptionType string `json:"subscription_type"`
	Source           string `json:"source"`
	CompletedAt      string `json:"completed_at"`
}

// Notification response type
type Notification struct {
	ID           string `json:"id"`
	ReferralCode string `json:"referral_code"`
	RewardAmount int    `json:"reward_amount"`
	Message      string `json:"message"`
	CreatedAt    string `json:"created_at"`
	Read         bool   `json:"read"`
}

// AssignResult response type
type AssignResult struct {
	FounderCode     string `json:"founder_code"`
	AlreadyAssigned bool   `json:"already_assigned"`
}

// FounderAssignment response type
type FounderAssignment struct {
	FounderCode    string `json:"founder_code"`
	DeviceIdentity string `json:"device_identity"`
	AssignedAt     string `json:"assigned_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printIdentity(i Identity) {
	fmt.Printf("Device Identity: %s\n", i.DeviceIdentity)
}

func (o *Output) printLinkResult(l LinkResult) {
	if !l.Stored {
		fmt.Println("No referral code in link")
		return
	}
	fmt.Printf("Referral Code: %s\n", l.ReferralCode)
	fmt.Println("Stored as pending")
}

func (o *Output) printPendingReferral(p PendingReferral) {
	fmt.Printf("Referral Code: %s\n", p.ReferralCode)
	fmt.Printf("Source: %s\n", p.Source)
	fmt.Printf("Created: %s\n", p.CreatedAt)
}

func (o *Output) printCompletedReferral(c CompletedReferral) {
	fmt.Printf("Referral Code: %s\n", c.ReferralCode)
	fmt.Printf("Referred User: %s\n", c.ReferredUserID)
	fmt.Printf("Subscription: %s\n", c.SubscriptionType)
	fmt.Printf("Source: %s\n", c.Source)
	fmt.Printf("Completed: %s\n", c.CompletedAt)
}

func (o *Output) printCompletedReferrals(list []CompletedReferral) {
	if len(list) == 0 {
		fmt.Println("No completed referrals")
		return
	}
	fmt.Printf("Completed Referrals (%d):\n", len(list))
	for _, c := range list {
		fmt.Printf("  - %s: %s (%s) via %s at %s\n",
			c.ReferralCode, c.ReferredUserID, c.SubscriptionType, c.Source, c.CompletedAt)
	}
}

func (o *Output) printNotification(n Notification) {
	readStr := "unread"
	if n.Read {
		readStr = "read"
	}
	fmt.Printf("[%s] %s (%s)\n", n.ID, n.Message, readStr)
}

func (o *Output) printNotifications(list []Notification) {
	if len(list) == 0 {
		fmt.Println("No notifications")
		return
	}
	fmt.Printf("Notifications (%d):\n", len(list))
	for _, n := range list {
		readStr := " "
		if !n.Read {
			readStr = "*"
		}
		fmt.Printf("  %s [%s] %s\n", readStr, n.ID, n.Message)
	}
}

func (o *Output) printAssignResult(a AssignResult) {
	fmt.Printf("Founder Code: %s\n", a.FounderCode)
	if a.AlreadyAssigned {
		fmt.Println("(previously assigned)")
	}
}

func (o *Output) printFounderAssignment(a FounderAssignment) {
	fmt.Printf("Founder Code: %s\n", a.FounderCode)
	fmt.Printf("Assigned: %s\n", a.AssignedAt)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
