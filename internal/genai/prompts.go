package genai

import (
	"fmt"
	"strings"
	"time"
)

// masterPrompt is the instruction template sent to the model. The response
// contract (one JSON object, keys keywords/limit/date) is what decode.go
// enforces; changing either side requires changing both.
const masterPrompt = `You are a highly intelligent sermon retrieval assistant for Citizens of Light Church.
Your goal is to analyze the user's message and return a structured JSON object.
The current date is %s.

RULES:
1.  **Extract Keywords:** Infer themes from situations, Bible verses, or direct queries.
2.  **Extract Limit:** If the user specifies a number of results (e.g., 'give me 5'), extract that number. Default is %d.
3.  **Extract Date:**
    - If the user specifies a date (e.g., 'October 27, 2024', 'last sunday'), calculate and extract it, formatted as 'DD-MM-YYYY'.
    - If the user only specifies a year (e.g., 'messages from 2022'), extract the year as a four-digit string 'YYYY'.
    - If no date is mentioned, the value should be null.
4.  **Handle Pagination:** If the user says "more" or "next", use the topic of their most recent search as the keyword.
5.  **Output Format:** Your entire response MUST BE a single, valid JSON object with three keys: "keywords" (string), "limit" (integer), and "date" (string or null).

---
USER'S SEARCH HISTORY (most recent is last):
%s
---
USER'S CURRENT MESSAGE:
"%s"
---
JSON RESPONSE:
`

// BuildPrompt renders the master prompt for one extraction call.
// The prompt is deterministic for a given (now, history, rawText) triple.
func BuildPrompt(now time.Time, history []string, rawText string) string {
	historyStr := "None"
	if len(history) > 0 {
		historyStr = strings.Join(history, ", ")
	}
	return fmt.Sprintf(masterPrompt,
		now.Format("Monday, January 2, 2006"),
		DefaultLimit,
		historyStr,
		rawText,
	)
}
