package usecase

import (
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation/editor"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation/repository"
	"github.com/google/uuid"
)

// Materialize flattens the item tree in pre-order. Each item's sort order
// is its index among its siblings and children point at the id just given
// to their parent. With keepIDs, item ids that are valid UUIDs are reused.
func Materialize(navigationID string, items []editor.Item, keepIDs bool) []model.NavigationItem {
	var out []model.NavigationItem
	var walk func(items []editor.Item, parentID *string)
	walk = func(items []editor.Item, parentID *string) {
		for i, it := range items {
			id := uuid.New().String()
			if keepIDs {
				if _, err := uuid.Parse(it.ID); err == nil {
					id = it.ID
				}
			}
			out = append(out, model.NavigationItem{
				ID:           id,
				NavigationID: navigationID,
				ParentID:     parentID,
				Name:         it.Name,
				URL:          it.URL,
				SortOrder:    i,
				CategoryID:   it.CategoryID,
			})
			if len(it.Items) > 0 {
				walk(it.Items, &id)
			}
		}
	}
	walk(items, nil)
	return out
}

// ToEditor converts a stored item tree into the editor's model.
func ToEditor(items []model.NavigationItem) []editor.Item {
	out := make([]editor.Item, 0, len(items))
	for _, it := range items {
		out = append(out, editor.Item{
			ID:         it.ID,
			Name:       it.Name,
			URL:        it.URL,
			CategoryID: it.CategoryID,
			Items:      ToEditor(it.Items),
		})
	}
	return out
}

func nest(items []model.NavigationItem) []model.NavigationItem {
	return repository.Nest(items)
}
