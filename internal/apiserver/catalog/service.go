// Package catalog 分类与条目：图片替换、分类级联删除、推荐标记
package catalog

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"wedding-planner/internal/shared/apperr"
	"wedding-planner/internal/shared/assets"
	"wedding-planner/internal/shared/model"
	"wedding-planner/internal/shared/storage"
)

// Store 目录操作所需的存储
type Store interface {
	storage.CategoryStore
	storage.ElementStore
}

var (
	errCategoryNotFound = apperr.NotFound("Category not found")
	errElementNotFound  = apperr.NotFound("Element not found")
	errInvalidCategory  = apperr.Validation("Invalid category ID")
	errInvalidElement   = apperr.Validation("Invalid element ID")
	errCategoryNameUsed = apperr.Conflict("Category name already exists")
)

// Service 分类与条目服务
//
// 图片文件的删除都是尽力而为：失败只记录日志，不影响记录本身的变更。
type Service struct {
	store   Store
	files   assets.Store
	cleaner *assets.Cleaner
	now     func() time.Time
}

// NewService 创建目录服务
func NewService(store Store, cleaner *assets.Cleaner) *Service {
	return &Service{store: store, files: cleaner.Store(), cleaner: cleaner, now: time.Now}
}

// ============================================================================
// Category
// ============================================================================

// ListCategories 按创建时间倒序
func (s *Service) ListCategories(ctx context.Context) ([]*model.Category, error) {
	list, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Storage("list categories", err)
	}
	return list, nil
}

// CreateCategory 创建分类，名称与图片都必填
func (s *Service) CreateCategory(ctx context.Context, name string, image *assets.Upload) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Category name is required")
	}
	if image == nil {
		return nil, apperr.Validation("Category image is required")
	}

	stored, err := s.files.Save(ctx, "", image)
	if err != nil {
		return nil, apperr.Storage("save category image", err)
	}

	category := &model.Category{
		ID:        model.NewID(),
		Name:      name,
		Image:     stored.Path,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		s.cleaner.Remove(ctx, stored.Path)
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, errCategoryNameUsed
		}
		return nil, apperr.Storage("create category", err)
	}

	log.Printf("[catalog] Category created: %s (%s)", category.Name, category.ID)
	return category, nil
}

// UpdateCategory 更新名称和/或图片；提供新图片时旧图片在更新成功后删除
func (s *Service) UpdateCategory(ctx context.Context, id, name string, image *assets.Upload) (*model.Category, error) {
	category, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		category.Name = name
	}

	oldImage := category.Image
	var newImage string
	if image != nil {
		stored, err := s.files.Save(ctx, "", image)
		if err != nil {
			return nil, apperr.Storage("save category image", err)
		}
		newImage = stored.Path
		category.Image = newImage
	}

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		s.cleaner.Remove(ctx, newImage)
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			return nil, errCategoryNameUsed
		case errors.Is(err, storage.ErrNotFound):
			return nil, errCategoryNotFound
		}
		return nil, apperr.Storage("update category", err)
	}

	if newImage != "" {
		s.cleaner.Remove(ctx, oldImage)
	}
	return category, nil
}

// DeleteCategory 级联删除分类及其全部条目
//
// 无事务时按 条目图片 → 条目记录 → 分类图片 → 分类记录 的顺序执行，
// 中途崩溃只会留下孤立数据，不会留下指向已删除分类的条目。
// 返回被删除的条目数。
func (s *Service) DeleteCategory(ctx context.Context, id string) (int, error) {
	category, err := s.getCategory(ctx, id)
	if err != nil {
		return 0, err
	}

	elements, err := s.store.ListElementsByCategory(ctx, category.ID)
	if err != nil {
		return 0, apperr.Storage("list category elements", err)
	}

	for _, e := range elements {
		s.cleaner.Remove(ctx, e.Image)
		if err := s.store.DeleteElement(ctx, e.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return 0, apperr.Storage("delete element", err)
		}
	}

	s.cleaner.Remove(ctx, category.Image)
	if err := s.store.DeleteCategory(ctx, category.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, errCategoryNotFound
		}
		return 0, apperr.Storage("delete category", err)
	}

	log.Printf("[catalog] Category deleted: %s (%d elements)", category.ID, len(elements))
	return len(elements), nil
}

func (s *Service) getCategory(ctx context.Context, id string) (*model.Category, error) {
	if !model.ValidID(id) {
		return nil, errInvalidCategory
	}
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, apperr.Storage("get category", err)
	}
	if category == nil {
		return nil, errCategoryNotFound
	}
	return category, nil
}

// ============================================================================
// Element
// ============================================================================

// ElementInput 条目字段，均为表单原始字符串
//
// 更新时空字段表示保持不变。
type ElementInput struct {
	Name          string
	Address       string
	Price         string
	Description   string
	CategoryID    string
	IsRecommended string
	Image         *assets.Upload
}

func (in *ElementInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Price = strings.TrimSpace(in.Price)
	in.Description = strings.TrimSpace(in.Description)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.IsRecommended = strings.TrimSpace(in.IsRecommended)
}

func parsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || price < 0 {
		return 0, apperr.Validation("Price must be a non-negative number")
	}
	return price, nil
}

func parseRecommended(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, apperr.Validation("isRecommended must be true or false")
	}
	return v, nil
}

// ListElementsByCategory 分类下的条目，按创建时间倒序
//
// 分类是否存在不做校验，未知分类返回空列表。
func (s *Service) ListElementsByCategory(ctx context.Context, categoryID string) ([]*model.Element, error) {
	list, err := s.store.ListElementsByCategory(ctx, categoryID)
	if err != nil {
		return nil, apperr.Storage("list elements", err)
	}
	return list, nil
}

// CreateElement 创建条目
//
// 只校验 CategoryID 的格式，不校验分类是否存在。
func (s *Service) CreateElement(ctx context.Context, in ElementInput) (*model.Element, error) {
	in.trim()
	if in.Name == "" || in.Address == "" || in.Price == "" || in.Description == "" || in.CategoryID == "" {
		return nil, apperr.Validation("All fields are required")
	}
	if in.Image == nil {
		return nil, apperr.Validation("Element image is required")
	}
	if !model.ValidID(in.CategoryID) {
		return nil, errInvalidCategory
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	recommended, err := parseRecommended(in.IsRecommended)
	if err != nil {
		return nil, err
	}

	stored, err := s.files.Save(ctx, "", in.Image)
	if err != nil {
		return nil, apperr.Storage("save element image", err)
	}

	element := &model.Element{
		ID:            model.NewID(),
		Name:          in.Name,
		Address:       in.Address,
		Price:         price,
		Description:   in.Description,
		Image:         stored.Path,
		CategoryID:    in.CategoryID,
		IsRecommended: recommended,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.CreateElement(ctx, element); err != nil {
		s.cleaner.Remove(ctx, stored.Path)
		return nil, apperr.Storage("create element", err)
	}

	log.Printf("[catalog] Element created: %s (%s) in category %s", element.Name, element.ID, element.CategoryID)
	return element, nil
}

// UpdateElement 更新非空字段；分类归属不可修改
func (s *Service) UpdateElement(ctx context.Context, id string, in ElementInput) (*model.Element, error) {
	element, err := s.getElement(ctx, id)
	if err != nil {
		return nil, err
	}

	in.trim()
	if in.Name != "" {
		element.Name = in.Name
	}
	if in.Address != "" {
		element.Address = in.Address
	}
	if in.Description != "" {
		element.Description = in.Description
	}
	if in.Price != "" {
		if element.Price, err = parsePrice(in.Price); err != nil {
			return nil, err
		}
	}
	if in.IsRecommended != "" {
		if element.IsRecommended, err = parseRecommended(in.IsRecommended); err != nil {
			return nil, err
		}
	}

	oldImage := element.Image
	var newImage string
	if in.Image != nil {
		stored, err := s.files.Save(ctx, "", in.Image)
		if err != nil {
			return nil, apperr.Storage("save element image", err)
		}
		newImage = stored.Path
		element.Image = newImage
	}

	if err := s.store.UpdateElement(ctx, element); err != nil {
		s.cleaner.Remove(ctx, newImage)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errElementNotFound
		}
		return nil, apperr.Storage("update element", err)
	}

	if newImage != "" {
		s.cleaner.Remove(ctx, oldImage)
	}
	return element, nil
}

// DeleteElement 先删图片再删记录；附件与日期标记不级联
func (s *Service) DeleteElement(ctx context.Context, id string) error {
	element, err := s.getElement(ctx, id)
	if err != nil {
		return err
	}

	s.cleaner.Remove(ctx, element.Image)
	if err := s.store.DeleteElement(ctx, element.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errElementNotFound
		}
		return apperr.Storage("delete element", err)
	}
	return nil
}

// ToggleRecommendation 翻转推荐标记并返回更新后的条目
func (s *Service) ToggleRecommendation(ctx context.Context, id string) (*model.Element, error) {
	element, err := s.getElement(ctx, id)
	if err != nil {
		return nil, err
	}

	element.IsRecommended = !element.IsRecommended
	if err := s.store.UpdateElement(ctx, element); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errElementNotFound
		}
		return nil, apperr.Storage("toggle recommendation", err)
	}
	return element, nil
}

// ListRecommended 推荐条目，按创建时间倒序，附带所属分类名称
func (s *Service) ListRecommended(ctx context.Context) ([]*model.Element, error) {
	elements, err := s.store.ListRecommendedElements(ctx)
	if err != nil {
		return nil, apperr.Storage("list recommended elements", err)
	}

	names := make(map[string]string)
	for _, e := range elements {
		name, ok := names[e.CategoryID]
		if !ok {
			category, err := s.store.GetCategory(ctx, e.CategoryID)
			if err != nil {
				return nil, apperr.Storage("get category", err)
			}
			if category != nil {
				name = category.Name
			}
			names[e.CategoryID] = name
		}
		e.CategoryName = name
	}
	return elements, nil
}

func (s *Service) getElement(ctx context.Context, id string) (*model.Element, error) {
	if !model.ValidID(id) {
		return nil, errInvalidElement
	}
	element, err := s.store.GetElement(ctx, id)
	if err != nil {
		return nil, apperr.Storage("get element", err)
	}
	if element == nil {
		return nil, errElementNotFound
	}
	return element, nil
}
