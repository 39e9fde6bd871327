package gemini

import (
	"fmt"

	"github.com/doclens-app/doclens/internal/analysis"
)

// Response markers. The model is instructed to fence its output with these
// so the parser can separate the transcription from the summary.
const (
	TextStartMarker    = "--- START OF EXTRACTED TEXT ---"
	TextEndMarker      = "--- END OF EXTRACTED TEXT ---"
	SummaryStartMarker = "--- START OF SUMMARY ---"
	SummaryEndMarker   = "--- END OF SUMMARY ---"
)

const extractPromptTemplate = `Please analyze the attached document (%s) and provide the following in %s:

**Task: Full Text Extraction**
1. Extract ALL textual content from the document, including any text visible in images.
2. Present the extracted text in a clean, readable format.
3. Preserve paragraph breaks and important formatting where possible.
4. Ensure the text follows %s direction appropriate for %s.
5. DO NOT summarize or alter the content - provide the complete extracted text only.

**Output Format:**
Please structure your response exactly as follows:

%s
[Full extracted text here]
%s
`

const summarizePromptTemplate = `Please analyze the attached document (%s) and provide the following in %s:

**Task 1: Extract and Summarize Content**
1. Extract all visible text from the document (including text in images if possible).
2. Create a comprehensive summary of the document's content.
3. Include key points, main ideas, and important details.
4. Format the summary in clear, well-structured paragraphs.
5. The summary should be approximately 20-30%% of the original text length.
6. Ensure the text follows %s direction appropriate for %s.

**Task 2: Full Text Extraction**
1. Extract ALL textual content from the document, including any text visible in images.
2. Present the extracted text in a clean, readable format.
3. Preserve paragraph breaks and important formatting where possible.
4. Ensure the text follows %s direction appropriate for %s.

**Output Format:**
Please structure your response exactly as follows:

%s
[Your detailed summary here]
%s

%s
[Full extracted text here]
%s
`

// BuildPrompt renders the analysis instruction for one request. The display
// name gives the model context; the language and direction words steer
// bilingual output.
func BuildPrompt(mode analysis.Mode, language analysis.Language, displayName string) string {
	lang := language.Name()
	dir := language.Direction()

	if mode == analysis.ModeSummarize {
		return fmt.Sprintf(summarizePromptTemplate,
			displayName, lang,
			dir, lang,
			dir, lang,
			SummaryStartMarker, SummaryEndMarker,
			TextStartMarker, TextEndMarker,
		)
	}

	return fmt.Sprintf(extractPromptTemplate,
		displayName, lang,
		dir, lang,
		TextStartMarker, TextEndMarker,
	)
}
