package entity

import "time"

type OrganizationActionType string

const (
	ActionCreateFolder OrganizationActionType = "CREATE_FOLDER"
	ActionMoveItem     OrganizationActionType = "MOVE_ITEM"
	ActionRenameItem   OrganizationActionType = "RENAME_ITEM"
)

// OrganizationAction is one structural edit proposed by the planner. Which fields are
// meaningful depends on Action:
//
//	CREATE_FOLDER: Name, ParentId, TempId
//	MOVE_ITEM:     ItemId, NewParentId (real id, tempId or nil for root)
//	RENAME_ITEM:   ItemId, NewName
type OrganizationAction struct {
	Action OrganizationActionType `json:"action"`

	Name     string  `json:"name,omitempty"`
	ParentId *string `json:"parentId,omitempty"`
	TempId   string  `json:"tempId,omitempty"`

	ItemId      string  `json:"itemId,omitempty"`
	NewParentId *string `json:"newParentId,omitempty"`
	NewName     string  `json:"newName,omitempty"`
}

func CreateFolderAction(name string, parentId *string, tempId string) OrganizationAction {
	return OrganizationAction{Action: ActionCreateFolder, Name: name, ParentId: parentId, TempId: tempId}
}

func MoveItemAction(itemId string, newParentId *string) OrganizationAction {
	return OrganizationAction{Action: ActionMoveItem, ItemId: itemId, NewParentId: newParentId}
}

func RenameItemAction(itemId, newName string) OrganizationAction {
	return OrganizationAction{Action: ActionRenameItem, ItemId: itemId, NewName: newName}
}

// OrganizationPlan is a planner proposal waiting for the user to confirm or discard it.
type OrganizationPlan struct {
	Id           string               `json:"id"`
	Actions      []OrganizationAction `json:"actions"`
	Descriptions []string             `json:"descriptions"`
	CreatedAt    time.Time            `json:"createdAt"`
}
