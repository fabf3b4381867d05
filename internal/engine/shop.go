package engine

import (
	"context"
	"strings"

	"ecoquest/internal/storage"
)

// ShopItem is a cosmetic decoration for the player's forest.
type ShopItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Cost  int    `json:"cost"`
	Stage Stage  `json:"requiredStage,omitempty"`
}

func ShopCatalog() []ShopItem {
	items := []ShopItem{
		{ID: "watering_can", Name: "Watering Can", Icon: "🚿", Cost: 100},
		{ID: "flower_pot", Name: "Flower Pot", Icon: "🪴", Cost: 150},
		{ID: "butterfly", Name: "Butterfly", Icon: "🦋", Cost: 200},
		{ID: "birdhouse", Name: "Birdhouse", Icon: "🐦", Cost: 300},
		{ID: "bench", Name: "Wooden Bench", Icon: "🪑", Cost: 500},
		{ID: "pond", Name: "Small Pond", Icon: "🐟", Cost: 800},
		{ID: "rainbow", Name: "Rainbow", Icon: "🌈", Cost: 1200},
	}
	for i := range items {
		items[i].Stage = ItemUnlockStages[items[i].ID]
	}
	return items
}

// FindShopItem looks up an item by id (case-insensitive).
func FindShopItem(id string) (ShopItem, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, it := range ShopCatalog() {
		if it.ID == id {
			return it, true
		}
	}
	return ShopItem{}, false
}

// BuyItem purchases a catalog item at its listed price.
func (s *Service) BuyItem(ctx context.Context, itemID string) (storage.User, ShopItem, error) {
	item, ok := FindShopItem(itemID)
	if !ok {
		return storage.User{}, ShopItem{}, ErrUnknownItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.getUser(ctx)
	if err := CanBuyItem(Stage(u.Stage), item.ID); err != nil {
		return storage.User{}, item, err
	}
	u, err := s.purchase(ctx, item.ID, item.Cost)
	if err != nil {
		return storage.User{}, item, err
	}
	return u, item, nil
}
