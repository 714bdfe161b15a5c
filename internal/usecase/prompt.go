package usecase

import (
	"fmt"
	"strings"

	"pdf-assistant/internal/domain/model"
)

// The generator is steered entirely through this prompt: it must answer
// with the structured command grammar and nothing else.
const systemPromptBase = `You are a PDF Operation Command Generator. You MUST respond with structured commands only.

AVAILABLE OPERATIONS:
1. extract_pages - Extract specific pages from a PDF
2. merge_pdfs - Merge multiple PDF files
3. split_pdf - Split a PDF into separate files
4. rotate_pages - Rotate pages by degrees
5. compress_pdf - Reduce PDF file size
6. add_watermark - Add text watermarks
7. extract_text - Extract text content

RESPONSE FORMAT - Use this EXACT structure:

<method_call_start>
<method_name>OPERATION_NAME</method_name>
<parameters>
{
    "parameter_name": "value"
}
</parameters>
<method_call_end>

PARAMETER RULES:

extract_pages:
- pages: [1, 2, 3] (required) - Page numbers to extract
- output_name: "filename.pdf" (optional)

merge_pdfs:
- merge_all: true/false (optional)
- output_name: "filename.pdf" (optional)

split_pdf:
- split_type: "pages" (optional)

rotate_pages:
- pages: [1, 2] (required) - Pages to rotate
- rotation: 90/180/270 (required) - Degrees

compress_pdf:
- output_name: "filename.pdf" (optional)

add_watermark:
- watermark_text: "text" (required)
- output_name: "filename.pdf" (optional)

extract_text:
- output_name: "filename.txt" (optional)

JSON RULES:
- Use double quotes only
- No comments allowed
- No trailing commas
- Valid JSON format

CRITICAL:
- ONLY respond with the method call format
- NO conversational text
- Focus on WHAT operation, not HOW to do it
- You don't need to know about specific PDF files
`

// BuildSystemPrompt assembles the generator prompt: grammar rules, the
// session's file-count context, and the tail of the conversation.
func BuildSystemPrompt(fileCount int, history []model.ChatMessage) string {
	var b strings.Builder
	b.WriteString(systemPromptBase)

	if fileCount > 0 {
		fmt.Fprintf(&b, "\nCONTEXT: %d PDF file(s) available for operations.\n", fileCount)
	} else {
		b.WriteString("\nCONTEXT: No PDF files uploaded. User must upload files first.\n")
	}

	if len(history) > 2 {
		b.WriteString("\nRECENT CONVERSATION:\n")
		recent := history
		if len(recent) > 4 {
			recent = recent[len(recent)-4:]
		}
		for _, m := range recent {
			role := "Assistant"
			if m.Role == model.RoleUser {
				role = "User"
			}
			content := m.Content
			if len(content) > 100 {
				content = content[:100] + "..."
			}
			fmt.Fprintf(&b, "%s: %s\n", role, content)
		}
	}

	b.WriteString("\nGenerate the appropriate command for the user's request:")
	return b.String()
}
