package classify

import (
	"fmt"
	"strings"

	"github.com/Titan-M/mailsift/pkg/types"
)

// Keyword sets for the heuristic classifier. Order of evaluation matters:
// the sets overlap, and Finance is checked first so financial messages are
// never miscategorized as generic shopping or promotions.
var (
	financeKeywords = []string{
		"bank", "credit", "payment", "invoice", "bill", "statement", "account",
		"transaction", "balance", "due", "paypal", "visa", "mastercard", "amex",
		"financial",
	}
	promoKeywords = []string{
		"unsubscribe", "newsletter", "promotion", "offer", "sale", "discount",
		"coupon", "deal", "save", "%", "limited time", "exclusive",
		"special offer", "marketing", "subscribe",
	}
	shoppingKeywords = []string{
		"order", "purchase", "delivery", "shipped", "cart", "receipt",
		"confirmation", "tracking", "amazon", "ebay", "shopify", "store",
		"product",
	}
	workKeywords = []string{
		"meeting", "conference", "project", "work", "office", "colleague",
		"team", "deadline", "business", "professional", "corporate", "company",
	}
	travelKeywords = []string{
		"flight", "hotel", "booking", "trip", "travel", "reservation",
		"airline", "airport", "vacation", "itinerary", "check-in",
	}
	personalKeywords = []string{
		"family", "friend", "birthday", "wedding", "personal", "private",
		"social",
	}

	urgentKeywords = []string{
		"urgent", "asap", "immediate", "deadline", "payment due", "overdue",
	}
	lowSignalKeywords = []string{
		"newsletter", "unsubscribe", "fyi", "notification", "update",
	}
)

// FallbackCategory classifies an email by keyword matching against the
// lowercased subject and body. First matching set wins.
func FallbackCategory(subject, body string) types.Category {
	text := strings.ToLower(subject + " " + body)

	ordered := []struct {
		keywords []string
		category types.Category
	}{
		{financeKeywords, types.CategoryFinance},
		{promoKeywords, types.CategoryPromotions},
		{shoppingKeywords, types.CategoryShopping},
		{workKeywords, types.CategoryWork},
		{travelKeywords, types.CategoryTravel},
		{personalKeywords, types.CategoryPersonal},
	}

	for _, set := range ordered {
		if containsAny(text, set.keywords) {
			return set.category
		}
	}
	return types.CategoryOther
}

// FallbackPriority assigns a priority by keyword matching. The priority
// heuristic runs independently of the category heuristic.
func FallbackPriority(subject, body string) types.Priority {
	text := strings.ToLower(subject + " " + body)

	if containsAny(text, urgentKeywords) {
		return types.PriorityHigh
	}
	if containsAny(text, lowSignalKeywords) {
		return types.PriorityLow
	}
	return types.PriorityMedium
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// senderDisplayName returns the display-name portion of a From value,
// the text preceding the first '<' delimiter.
func senderDisplayName(sender string) string {
	name, _, _ := strings.Cut(sender, "<")
	return strings.TrimSpace(name)
}

// fallbackSummary is the deterministic summary used when the whole
// classification pipeline fell back to heuristics.
func fallbackSummary(sender, subject string) string {
	ellipsis := ""
	if len(subject) > 100 {
		subject = subject[:100]
		ellipsis = "..."
	}
	return fmt.Sprintf("Email from %s: %s%s", senderDisplayName(sender), subject, ellipsis)
}

// summaryOnlyFallback is the deterministic summary used when classification
// succeeded but the summarization stage failed.
func summaryOnlyFallback(sender, subject, body string) string {
	ellipsis := ""
	if len(body) > 150 {
		body = body[:150]
		ellipsis = "..."
	}
	return fmt.Sprintf("Email from %s about: %s. %s%s", senderDisplayName(sender), subject, body, ellipsis)
}
