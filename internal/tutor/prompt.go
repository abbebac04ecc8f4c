// Package tutor builds the correction prompt, parses the model's labelled reply,
// and highlights the learner's mistakes and the model's corrections.
package tutor

import "fmt"

const promptTemplate = `You are a language tutor. Please analyze the following answer given by the user:

User's Answer: %s

1. Identify all incorrect words or phrases in the user's answer by surrounding them with curly braces {like this}.
2. Provide a corrected answer to improve grammar, vocabulary, and sentence structure, changing only the identified incorrect parts. Highlight corrected parts by surrounding them with curly braces {like this}.
3. Write a short feedback with constructive advice on how the user could improve their response.

Example:
User's Answer: I goed to the market yesterday.
Marked Incorrect Words: I {goed} to the market yesterday.
Corrected Answer: I {went} to the market yesterday.
Feedback: The word "goed" is incorrect. Use the correct past tense "went".

Marked Incorrect Words:
Corrected Answer:
Feedback:`

// BuildPrompt embeds the learner's answer verbatim into the instruction template
func BuildPrompt(answer string) string {
	return fmt.Sprintf(promptTemplate, answer)
}
