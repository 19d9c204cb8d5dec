package naming

import (
	"fmt"

	"github.com/media-namer/backend/internal/digest"
)

const systemPrompt = `You are an expert at naming video and image files. ` +
	`Given a transcript, timestamped visual clues, the original filename, and optional ` +
	`user context, propose a clear, distinctive, searchable title of about 30 characters. ` +
	`Include keywords an editor would search for; prefer phrases actually spoken in the ` +
	`content. Do not use punctuation in the filename and do not include the extension. ` +
	`If the content is ambiguous, add one short clarifying question about people, places, ` +
	`or dates. Respond with a JSON object containing exactly these fields: ` +
	`"filename", "reason", "tags" (comma-separated), "question".`

// BuildUserPrompt renders the digest into the user message for the naming
// model.
func BuildUserPrompt(d digest.Digest) string {
	return fmt.Sprintf(
		"Transcript:\n%s\n==\nVisual clues:\n%s\n==\nOriginal filename:\n%s\n==\nContext from the user:\n%s\n",
		d.Transcript, d.VisualClues, d.OriginalName, d.UserContext,
	)
}
