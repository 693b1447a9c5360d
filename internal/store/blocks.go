// internal/store/blocks.go
//
// Homepage building blocks (hero sections and feature cards) and the team
// roster.  All three are ordered by sort_order and filtered by is_active.

package store

import (
	"context"

	"github.com/yanizio/viyakaptan/internal/content"
)

const (
	heroCols = "id, title, subtitle, background_image, primary_button_text, primary_button_link, " +
		"secondary_button_text, secondary_button_link, is_active, sort_order, created_at, updated_at"
	featureCols = "id, title, description, icon, color, link, sort_order, is_active, created_at, updated_at"
	teamCols    = "id, name, title, bio, image, email, social_links, sort_order, is_active, created_at, updated_at"
)

/*──────────────────────────── hero ────────────────────────────────────────*/

type Hero struct {
	t table[content.HeroSection]
}

func (r *Hero) List(ctx context.Context, f content.Filter) ([]content.HeroSection, error) {
	return r.t.list(ctx, activeWhere(f.ActiveOnly))
}

func (r *Hero) Get(ctx context.Context, id int64) (content.HeroSection, error) {
	return r.t.byID(ctx, id)
}

func (r *Hero) Create(ctx context.Context, in content.HeroInput) (content.HeroSection, error) {
	if err := content.Validate(in); err != nil {
		return content.HeroSection{}, err
	}
	return r.t.insert(ctx,
		`INSERT INTO hero_sections (title, subtitle, background_image, primary_button_text,
		 primary_button_link, secondary_button_text, secondary_button_link, is_active, sort_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Subtitle, in.BackgroundImage, in.PrimaryButtonText, in.PrimaryButtonLink,
		in.SecondaryButtonText, in.SecondaryButtonLink, in.IsActive, in.SortOrder)
}

func (r *Hero) Update(ctx context.Context, id int64, in content.HeroInput) (content.HeroSection, error) {
	if err := content.Validate(in); err != nil {
		return content.HeroSection{}, err
	}
	return r.t.update(ctx, id,
		`UPDATE hero_sections SET title = ?, subtitle = ?, background_image = ?, primary_button_text = ?,
		 primary_button_link = ?, secondary_button_text = ?, secondary_button_link = ?, is_active = ?,
		 sort_order = ? WHERE id = ?`,
		in.Title, in.Subtitle, in.BackgroundImage, in.PrimaryButtonText, in.PrimaryButtonLink,
		in.SecondaryButtonText, in.SecondaryButtonLink, in.IsActive, in.SortOrder)
}

func (r *Hero) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

/*──────────────────────────── features ────────────────────────────────────*/

type Features struct {
	t table[content.FeatureCard]
}

func (r *Features) List(ctx context.Context, f content.Filter) ([]content.FeatureCard, error) {
	return r.t.list(ctx, activeWhere(f.ActiveOnly))
}

func (r *Features) Get(ctx context.Context, id int64) (content.FeatureCard, error) {
	return r.t.byID(ctx, id)
}

func (r *Features) Create(ctx context.Context, in content.FeatureInput) (content.FeatureCard, error) {
	if err := content.Validate(in); err != nil {
		return content.FeatureCard{}, err
	}
	return r.t.insert(ctx,
		`INSERT INTO feature_cards (title, description, icon, color, link, sort_order, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Description, in.Icon, in.Color, in.Link, in.SortOrder, in.IsActive)
}

func (r *Features) Update(ctx context.Context, id int64, in content.FeatureInput) (content.FeatureCard, error) {
	if err := content.Validate(in); err != nil {
		return content.FeatureCard{}, err
	}
	return r.t.update(ctx, id,
		`UPDATE feature_cards SET title = ?, description = ?, icon = ?, color = ?, link = ?,
		 sort_order = ?, is_active = ? WHERE id = ?`,
		in.Title, in.Description, in.Icon, in.Color, in.Link, in.SortOrder, in.IsActive)
}

func (r *Features) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

/*──────────────────────────── team ────────────────────────────────────────*/

type Team struct {
	t table[content.TeamMember]
}

func (r *Team) List(ctx context.Context, f content.Filter) ([]content.TeamMember, error) {
	return r.t.list(ctx, activeWhere(f.ActiveOnly))
}

func (r *Team) Get(ctx context.Context, id int64) (content.TeamMember, error) {
	return r.t.byID(ctx, id)
}

func (r *Team) Create(ctx context.Context, in content.TeamInput) (content.TeamMember, error) {
	if err := content.Validate(in); err != nil {
		return content.TeamMember{}, err
	}
	return r.t.insert(ctx,
		`INSERT INTO team_members (name, title, bio, image, email, social_links, sort_order, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Title, in.Bio, in.Image, in.Email, content.BuildSocialLinks(in.SocialLinks),
		in.SortOrder, in.IsActive)
}

func (r *Team) Update(ctx context.Context, id int64, in content.TeamInput) (content.TeamMember, error) {
	if err := content.Validate(in); err != nil {
		return content.TeamMember{}, err
	}
	return r.t.update(ctx, id,
		`UPDATE team_members SET name = ?, title = ?, bio = ?, image = ?, email = ?, social_links = ?,
		 sort_order = ?, is_active = ? WHERE id = ?`,
		in.Name, in.Title, in.Bio, in.Image, in.Email, content.BuildSocialLinks(in.SocialLinks),
		in.SortOrder, in.IsActive)
}

func (r *Team) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}
