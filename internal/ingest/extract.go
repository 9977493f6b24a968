package ingest

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	shortContentLimit = 200
	summaryLimit      = 150
	maxKeywords       = 8
	maxTitleKeywords  = 3
	maxCompounds      = 2
	minTitleWordLen   = 4
	minCompoundLen    = 6
	minKeywordLen     = 3
	publishedPrefix   = "Published "
	ellipsis          = "..."
)

var (
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	bracketPattern  = regexp.MustCompile(`\[.*?\]`)
	spacePattern    = regexp.MustCompile(`\s+`)
	sentenceBreak   = regexp.MustCompile(`[.!?]`)
	compoundPattern = regexp.MustCompile(`\b\w+(?:-\w+)*\b`)
)

// commonKeywords is the gifting vocabulary searched for when a row has no topics.
var commonKeywords = []string{
	"gift", "gifting", "corporate", "business", "employee", "client",
	"trend", "trending", "2025", "luxury", "premium", "sustainable",
	"eco-friendly", "eco", "friendly", "green", "recycled", "bamboo",
	"organic", "plantable", "reusable", "personalized", "custom", "branded", "wellness",
	"remote", "hybrid", "workplace", "culture", "retention", "onboarding",
	"appreciation", "recognition", "loyalty", "engagement", "productivity",
	"technology", "innovation", "experience", "quality", "value",
	"digital", "smart", "wireless", "portable", "gadget", "tech",
	"health", "self-care", "mindfulness", "fitness",
	"travel", "lifestyle", "fashion", "style", "design", "artistic",
	"food", "gourmet", "culinary", "beverage", "coffee", "tea",
	"home", "office", "workspace", "desk", "stationery", "accessories",
	"event", "celebration", "festival", "holiday", "seasonal", "anniversary",
	"birthday", "wedding", "graduation", "promotion", "achievement",
}

var titleStopwords = setOf(
	"the", "and", "for", "with", "that", "this", "from", "are", "was", "were",
	"have", "has", "had", "will", "would", "could", "should",
)

var keywordStopwords = setOf(
	"the", "and", "for", "with", "that", "this", "from", "are", "was", "were",
	"have", "has", "had", "will", "would", "could", "should",
	"can", "may", "might", "must", "shall",
)

var fillerPhrases = setOf("this-is", "that-is", "there-are", "here-are")

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006",
	"1/2/2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
	"January 2006",
	"Jan 2006",
}

// Summarize shortens scraped content for display. Content up to 200 characters
// is kept as is. Longer content is stripped of markup, loses a leading copy of
// the title, and is cut to whole sentences within 150 characters.
func Summarize(content, title string) string {
	if len(content) <= shortContentLimit {
		return content
	}

	summary := stripMarkup(content)
	summary = bracketPattern.ReplaceAllString(summary, "")
	summary = strings.TrimSpace(spacePattern.ReplaceAllString(summary, " "))

	if title != "" && len(summary) >= len(title) && strings.EqualFold(summary[:len(title)], title) {
		summary = strings.TrimSpace(summary[len(title):])
	}

	if len(summary) <= summaryLimit {
		return summary
	}

	sentences := sentenceBreak.Split(summary, -1)
	if len(sentences) > 1 {
		var b strings.Builder
		for _, sentence := range sentences {
			if b.Len()+len(sentence) > summaryLimit {
				break
			}
			b.WriteString(sentence)
			b.WriteString(". ")
		}
		if truncated := strings.TrimSpace(b.String()); truncated != "" {
			return truncated
		}
	}
	return cut(summary, summaryLimit) + ellipsis
}

// stripMarkup returns the text content of an HTML fragment, dropping scripts and
// styles. Content the parser rejects falls back to removing anything tag shaped.
func stripMarkup(content string) string {
	if !strings.Contains(content, "<") {
		return content
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return tagPattern.ReplaceAllString(content, "")
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Text()
}

// cut truncates s to at most n bytes without splitting a UTF-8 sequence.
func cut(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// ExtractKeywords returns the tags for a row. Explicit topics win; otherwise tags
// are generated from the gifting vocabulary, title words and hyphenated phrases.
// At most eight tags are kept.
func ExtractKeywords(title, content, topics string) []string {
	var keywords []string
	if strings.TrimSpace(topics) != "" {
		for _, topic := range strings.Split(topics, ",") {
			if t := strings.TrimSpace(topic); t != "" {
				keywords = append(keywords, t)
			}
		}
	} else {
		keywords = generateKeywords(title, content)
	}

	out := make([]string, 0, maxKeywords)
	seen := make(map[string]struct{})
	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		if len(kw) < minKeywordLen {
			continue
		}
		if _, stop := keywordStopwords[lower]; stop {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, kw)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

func generateKeywords(title, content string) []string {
	text := strings.ToLower(title + " " + content)

	var keywords []string
	for _, kw := range commonKeywords {
		if strings.Contains(text, kw) {
			keywords = append(keywords, kw)
		}
	}

	titleWords := 0
	for _, word := range strings.Fields(strings.ToLower(title)) {
		if titleWords == maxTitleKeywords {
			break
		}
		if len(word) < minTitleWordLen {
			continue
		}
		if _, stop := titleStopwords[word]; stop {
			continue
		}
		keywords = append(keywords, word)
		titleWords++
	}

	compounds := 0
	for _, phrase := range compoundPattern.FindAllString(text, -1) {
		if compounds == maxCompounds {
			break
		}
		if len(phrase) < minCompoundLen || !strings.Contains(phrase, "-") {
			continue
		}
		if _, filler := fillerPhrases[phrase]; filler {
			continue
		}
		keywords = append(keywords, phrase)
		compounds++
	}
	return keywords
}

// ParseDate parses a scraped date. A "Published " prefix is ignored. Unparseable
// or empty input yields nil rather than a fabricated date.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), publishedPrefix))
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

func setOf(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}
