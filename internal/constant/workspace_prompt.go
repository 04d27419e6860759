package constant

const (
	AssistActionSummarize  = "summarize"
	AssistActionImprove    = "improve"
	AssistActionBrainstorm = "brainstorm"

	AssistSummarizePrompt = "Summarize the following text in one concise paragraph.\n\n---\n%s"

	AssistImprovePrompt = "Rewrite the following text with correct grammar and spelling and clearer phrasing. " +
		"Output only the rewritten text, with no commentary.\n\n---\n%s"

	AssistBrainstormPrompt = "Expand on the ideas below. List related concepts, possible next steps " +
		"and a few creative suggestions.\n\n---\n%s"

	PresentationPrompt = `Write a %d-slide presentation about "%s".
Each slide has a short title and Markdown content with 3 to 4 bullet points.

Output MUST be valid JSON: {"slides": [{"title": "...", "content": "..."}]}`

	// WorkspaceOrganizePrompt receives the JSON encoded item list.
	WorkspaceOrganizePrompt = `You organize personal workspaces. Below is a flat list of every item (folders, pages, databases, ...) of one workspace.
Suggest a clearer structure by creating folders, moving items and renaming them. Group by project, topic or status (for example "Work", "Personal", "Archive").

ACTIONS:
1. CREATE_FOLDER: requires "name", "parentId" (null for the root) and a unique "tempId" such as "temp-folder-1".
2. MOVE_ITEM: requires "itemId" and "newParentId". "newParentId" is an existing id or a tempId created in this response.
3. RENAME_ITEM: requires "itemId" and "newName".

RULES:
- Never delete items.
- Only propose changes that clearly improve the structure. If it is already fine, return an empty array.
- Items at the root have "parentId": null.
- Output MUST be a JSON array of action objects and nothing else.

ITEMS:
%s`
)
