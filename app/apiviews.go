package app

import (
	"database/sql"
	"time"

	"github.com/fiffu/stockwatch/lib/models"
)

type UserView struct {
	ID         uint   `json:"id"`
	WebhookURL string `json:"webhook_url"`
	CreatedAt  string `json:"created_at"`
}

type ProductView struct {
	ID         uint   `json:"id"`
	UserID     uint   `json:"user_id"`
	URL        string `json:"url"`
	LastStatus string `json:"last_status"`
}

type CategoryView struct {
	ID          uint    `json:"id"`
	UserID      uint    `json:"user_id"`
	URL         string  `json:"url"`
	WebhookURL  string  `json:"webhook_url"`
	LastScanned *string `json:"last_scanned"`
}

type ListingView struct {
	URL       string `json:"url"`
	Status    string `json:"status"`
	FirstSeen string `json:"first_seen"`
	LastSeen  string `json:"last_seen"`
}

func (view UserView) From(entity models.User) UserView {
	return UserView{
		ID:         entity.ID,
		WebhookURL: entity.WebhookURL,
		CreatedAt:  entity.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (view ProductView) From(entity models.Product) ProductView {
	return ProductView{
		ID:         entity.ID,
		UserID:     entity.UserID,
		URL:        entity.URL,
		LastStatus: string(entity.LastStatus),
	}
}

func (view CategoryView) From(entity models.Category) CategoryView {
	return CategoryView{
		ID:          entity.ID,
		UserID:      entity.UserID,
		URL:         entity.URL,
		WebhookURL:  entity.WebhookURL,
		LastScanned: isoformat(entity.LastScanned),
	}
}

func (view ListingView) From(entity models.CategoryProduct) ListingView {
	return ListingView{
		URL:       entity.URL,
		Status:    string(entity.Status),
		FirstSeen: entity.FirstSeen.UTC().Format(time.RFC3339),
		LastSeen:  entity.LastSeen.UTC().Format(time.RFC3339),
	}
}

type Fromable[Entity any, Repr any] interface {
	From(Entity) Repr
}

func FromMany[T any, U Fromable[T, U]](elems []T) []U {
	out := make([]U, len(elems))
	for i, t := range elems {
		var u U
		out[i] = u.From(t)
	}
	return out
}

func isoformat(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.UTC().Format(time.RFC3339)
	return &s
}
