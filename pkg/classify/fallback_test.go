package classify

import (
	"testing"

	"github.com/Titan-M/mailsift/pkg/types"
)

func TestFallbackCategory_FinanceBeatsPromotions(t *testing.T) {
	// "account" is a finance keyword even though the message could also
	// read as promotional; Finance is checked first.
	got := FallbackCategory("Invoice overdue", "please settle your account balance")
	if got != types.CategoryFinance {
		t.Errorf("Expected Finance, got %s", got)
	}
}

func TestFallbackCategory_Precedence(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    types.Category
	}{
		{"finance", "Your bank statement", "monthly statement attached", types.CategoryFinance},
		{"promotions", "Special offer inside", "unsubscribe at any time", types.CategoryPromotions},
		{"shopping", "Your package", "tracking number enclosed", types.CategoryShopping},
		{"work", "Standup", "meeting moved to 10am", types.CategoryWork},
		{"travel", "Itinerary", "your flight departs at 7", types.CategoryTravel},
		{"personal", "Saturday", "happy birthday!", types.CategoryPersonal},
		{"other", "hello", "nothing matches here", types.CategoryOther},
		{"shopping receipt with account is finance", "Receipt", "charged to your account", types.CategoryFinance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FallbackCategory(tt.subject, tt.body); got != tt.want {
				t.Errorf("FallbackCategory(%q, %q) = %s, want %s", tt.subject, tt.body, got, tt.want)
			}
		})
	}
}

func TestFallbackPriority(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    types.Priority
	}{
		{"urgent keyword", "URGENT: server down", "", types.PriorityHigh},
		{"overdue", "Invoice overdue", "please settle your account balance", types.PriorityHigh},
		{"low signal", "Weekly newsletter", "click unsubscribe below", types.PriorityLow},
		{"update is low", "Product update", "see what changed", types.PriorityLow},
		{"default", "Lunch?", "are you free today", types.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FallbackPriority(tt.subject, tt.body); got != tt.want {
				t.Errorf("FallbackPriority(%q, %q) = %s, want %s", tt.subject, tt.body, got, tt.want)
			}
		})
	}
}

func TestFallback_EnumClosure(t *testing.T) {
	inputs := []struct{ subject, body string }{
		{"", ""},
		{"random subject", "random body"},
		{"Invoice overdue", "please settle your account balance"},
		{"newsletter", "unsubscribe"},
		{"πßç unicode", "∆∂ƒ"},
	}

	for _, in := range inputs {
		if cat := FallbackCategory(in.subject, in.body); !cat.Valid() {
			t.Errorf("FallbackCategory(%q, %q) produced invalid category %q", in.subject, in.body, cat)
		}
		if pri := FallbackPriority(in.subject, in.body); !pri.Valid() {
			t.Errorf("FallbackPriority(%q, %q) produced invalid priority %q", in.subject, in.body, pri)
		}
	}
}

func TestSenderDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"KAYAK <kayak@msg.kayak.com>", "KAYAK"},
		{"alice@example.com", "alice@example.com"},
		{"  Bob Smith  <bob@example.com>", "Bob Smith"},
	}
	for _, tt := range tests {
		if got := senderDisplayName(tt.in); got != tt.want {
			t.Errorf("senderDisplayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFallbackSummary_TruncatesLongSubject(t *testing.T) {
	subject := ""
	for i := 0; i < 120; i++ {
		subject += "x"
	}

	got := fallbackSummary("Alice <alice@example.com>", subject)
	want := "Email from Alice: " + subject[:100] + "..."
	if got != want {
		t.Errorf("Unexpected fallback summary: %s", got)
	}
}
