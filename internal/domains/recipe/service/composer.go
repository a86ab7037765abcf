package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"foodgram-backend/internal/domains/recipe/model"
	"foodgram-backend/internal/infrastructure/storage"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/internal/shared/viewer"
	"foodgram-backend/pkg/logger"
)

func (s *recipeService) Create(ctx context.Context, v viewer.Viewer, req model.CreateRequest) (*model.RecipeResponse, error) {
	if v.IsAnonymous() {
		return nil, model.ErrUnauthenticated
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	image, err := s.storeImage(ctx, req.Image, "")
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    v.UserID,
		Name:        req.Name,
		Slug:        recipeSlug(req.Name),
		Image:       image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := s.repo.Create(ctx, recipe, req.Tags, req.Ingredients); err != nil {
		s.discardImage(ctx, image, req.Image)
		return nil, err
	}

	logger.Info("recipe created", map[string]interface{}{
		"recipe_id": recipe.ID.String(),
		"author_id": v.UserID.String(),
	})
	return s.Get(ctx, v, recipe.ID)
}

func (s *recipeService) Update(ctx context.Context, v viewer.Viewer, id uuid.UUID, req model.UpdateRequest) (*model.RecipeResponse, error) {
	current, err := s.authorize(ctx, v, id)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var uploaded string
	newUpload := false
	if req.Image != nil {
		newUpload = model.IsUploadedImage(*req.Image)
		if uploaded, err = s.storeImage(ctx, *req.Image, current.Image); err != nil {
			return nil, err
		}
		req.Image = &uploaded
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		// chỉ xoá ảnh vừa upload, không đụng URL do client gửi
		if newUpload {
			s.discardImage(ctx, uploaded, current.Image)
		}
		return nil, err
	}
	if req.Image != nil {
		s.discardImage(ctx, current.Image, uploaded)
	}

	logger.Info("recipe updated", map[string]interface{}{"recipe_id": id.String()})
	return s.Get(ctx, v, id)
}

func (s *recipeService) Delete(ctx context.Context, v viewer.Viewer, id uuid.UUID) error {
	current, err := s.authorize(ctx, v, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.discardImage(ctx, current.Image, "")

	logger.Info("recipe deleted", map[string]interface{}{"recipe_id": id.String()})
	return nil
}

// authorize loads the recipe and checks that v is its author or an admin.
func (s *recipeService) authorize(ctx context.Context, v viewer.Viewer, id uuid.UUID) (*model.Recipe, error) {
	if v.IsAnonymous() {
		return nil, model.ErrUnauthenticated
	}
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.CanModify(recipe.AuthorID) {
		return nil, model.ErrPermissionDenied
	}
	return recipe, nil
}

// storeImage uploads a data URI and returns its URL. An external http(s) URL is
// kept as is; a stored object may only be kept by the recipe it was uploaded for.
func (s *recipeService) storeImage(ctx context.Context, image, current string) (string, error) {
	if !model.IsUploadedImage(image) {
		if s.images.Owns(image) && image != current {
			return "", model.ErrForeignImage
		}
		return image, nil
	}
	url, err := s.images.SaveRecipeImage(ctx, image)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return "", model.ErrInvalidImage.Wrap(err)
		}
		return "", fmt.Errorf("store recipe image: %w", err)
	}
	return url, nil
}

// discardImage removes url from storage unless it is still in use (keep) or
// not ours. Failures are logged only; the recipe write already happened.
func (s *recipeService) discardImage(ctx context.Context, url, keep string) {
	if url == "" || url == keep || model.IsUploadedImage(url) || !s.images.Owns(url) {
		return
	}
	if err := s.images.DeleteByURL(ctx, url); err != nil {
		logger.Warn("failed to delete recipe image", map[string]interface{}{"url": url, "error": err.Error()})
	}
}

// recipeSlug is fixed at creation; the short suffix keeps same-named recipes
// of different authors apart.
func recipeSlug(name string) string {
	base := utils.GenerateSlug(name)
	if base == "" {
		base = "recipe"
	}
	return base + "-" + uuid.NewString()[:8]
}
