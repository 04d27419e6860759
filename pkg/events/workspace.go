package events

import (
	"time"

	"github.com/likhit-sai/CogniFlow/internal/entity"
)

const (
	TypeItemsChanged = "workspace.items.changed"
	TypeSaveStatus   = "workspace.save.status"
	TypePlanCreated  = "workspace.plan.created"
	TypePlanApplied  = "workspace.plan.applied"
)

// ItemsChanged reports a store mutation. change is the store's change kind
// (created, updated, deleted, replaced, active, ...).
func ItemsChanged(change string, itemIds []string, activeId *string, at time.Time) BaseEvent {
	ids := make([]interface{}, 0, len(itemIds))
	for _, id := range itemIds {
		ids = append(ids, id)
	}
	data := map[string]interface{}{
		"change":  change,
		"itemIds": ids,
	}
	if activeId != nil {
		data["activeId"] = *activeId
	} else {
		data["activeId"] = nil
	}
	return New(TypeItemsChanged, data, at)
}

func SaveStatusChanged(status entity.SaveStatus, at time.Time) BaseEvent {
	data := map[string]interface{}{
		"state": string(status.State),
		"error": status.Error,
		"seq":   status.Seq,
	}
	if status.LastSavedAt != nil {
		data["lastSavedAt"] = status.LastSavedAt.UTC().Format(time.RFC3339Nano)
	}
	return New(TypeSaveStatus, data, at)
}

func PlanCreated(planId string, actionCount int, at time.Time) BaseEvent {
	return New(TypePlanCreated, map[string]interface{}{
		"planId":  planId,
		"actions": actionCount,
	}, at)
}

func PlanApplied(planId string, created, changed, skipped int, at time.Time) BaseEvent {
	return New(TypePlanApplied, map[string]interface{}{
		"planId":  planId,
		"created": created,
		"changed": changed,
		"skipped": skipped,
	}, at)
}
