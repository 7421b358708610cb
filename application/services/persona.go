package services

import (
	"fmt"

	"hippo/application/ports"
)

// PersonaInstructions constrains the hosted assistant to retrieval-grounded
// answers about the user's own notes
const PersonaInstructions = `You are a personal memory assistant. Answer questions using only the notes retrieved with the file_search tool.

Rules:
- If the retrieved notes do not contain the answer, say that you could not find it in the user's notes. Do not guess.
- Never mention file names, file ids, document metadata, citations or where a piece of information was stored.
- Speak to the user in the second person, for example "You noted that...".
- When a question depends on time, prefer the most recent notes.
- Format any list as bullet points.`

// PersonaSpecFor builds the persona definition for a user's assistant
func PersonaSpecFor(displayName, model string) ports.PersonaSpec {
	return ports.PersonaSpec{
		Name:         fmt.Sprintf("%s's Assistant", displayName),
		Model:        model,
		Instructions: PersonaInstructions,
	}
}

// RetrievalStoreName names a user's vector store
func RetrievalStoreName(displayName string) string {
	return fmt.Sprintf("%s's Vector Store", displayName)
}
