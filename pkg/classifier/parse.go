package classifier

import (
	"encoding/json"
	"regexp"
	"strings"
)

// parsedResponse is the shape both fallback parsers produce.
type parsedResponse struct {
	IsValueless  bool     `json:"isValueless"`
	TopicTags    []string `json:"topicTags"`
	ContentTypes []string `json:"contentTypes"`
}

// responseParser attempts one extraction strategy. Parsers are tried
// in order; the first success wins.
type responseParser func(string) (parsedResponse, bool)

var responseParsers = []responseParser{
	parseJSONObject,
	parseLabeledLines,
}

func parseResponse(content string) (parsedResponse, bool) {
	for _, parse := range responseParsers {
		if parsed, ok := parse(content); ok {
			return parsed, true
		}
	}
	return parsedResponse{}, false
}

// parseJSONObject locates a JSON object substring anywhere in the
// response. Models routinely wrap the object in prose or markdown code
// fences, so the braces are searched for rather than assumed to span
// the whole string.
func parseJSONObject(content string) (parsedResponse, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return parsedResponse{}, false
	}
	var parsed parsedResponse
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return parsedResponse{}, false
	}
	return parsed, true
}

var (
	topicLinePattern   = regexp.MustCompile(`(?i)(?:topic tags?|主题标签)\s*[:：]\s*(.+)`)
	contentLinePattern = regexp.MustCompile(`(?i)(?:content types?|内容类型)\s*[:：]\s*(.+)`)
	valuelessPattern   = regexp.MustCompile(`(?i)(?:valueless|低价值)\s*[:：]\s*(true|yes|是)`)
	listDelimiters     = regexp.MustCompile(`[,，、]`)
)

// parseLabeledLines falls back to "topic tags:" / "content types:"
// labeled lines, splitting on common CJK and Latin list delimiters.
func parseLabeledLines(content string) (parsedResponse, bool) {
	var parsed parsedResponse
	ok := false
	if m := topicLinePattern.FindStringSubmatch(content); m != nil {
		parsed.TopicTags = splitLabelList(m[1])
		ok = true
	}
	if m := contentLinePattern.FindStringSubmatch(content); m != nil {
		parsed.ContentTypes = splitLabelList(m[1])
		ok = true
	}
	if valuelessPattern.MatchString(content) {
		parsed.IsValueless = true
		ok = true
	}
	return parsed, ok
}

func splitLabelList(line string) []string {
	var labels []string
	for _, part := range listDelimiters.Split(line, -1) {
		part = strings.Trim(strings.TrimSpace(part), `"'[]`)
		if part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}

// foldLabel normalizes a label for case-insensitive comparison.
func foldLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
