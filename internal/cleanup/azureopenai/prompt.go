package azureopenai

import "strings"

const systemPrompt = `You are an AI assistant that corrects and reformats OCR text. Your tasks:
1. Fix spelling errors and typos from OCR misreading
2. Correct word spacing issues (e.g., "wend-to-end" -> "end-to-end")
3. Fix capitalization and punctuation
4. Preserve the original structure and meaning
5. Use the reference context (if provided) to understand domain-specific terminology
6. When the image shows arrows, boxes, or diagrams, infer the hierarchical structure they express
7. Format the output in clear markdown with proper headings and lists

IMPORTANT: Only fix obvious OCR errors. Do not add new information or change the meaning.`

func buildUserPrompt(text, contextBlock, layoutSummary string) string {
	var b strings.Builder
	b.WriteString("Please clean and reformat this OCR text:\n\n")
	b.WriteString(text)
	if layoutSummary != "" {
		b.WriteString("\n\n")
		b.WriteString(layoutSummary)
	}
	if contextBlock != "" {
		b.WriteString(contextBlock)
	}
	return b.String()
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, leaving inner fences intact.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	last := strings.TrimSpace(lines[len(lines)-1])
	if last != "```" {
		return trimmed
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}
