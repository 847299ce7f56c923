// Package media 条目媒体附件：上传、列表、删除
package media

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"wedding-planner/internal/shared/apperr"
	"wedding-planner/internal/shared/assets"
	"wedding-planner/internal/shared/model"
	"wedding-planner/internal/shared/storage"
)

// Store 媒体操作所需的存储
type Store interface {
	storage.MediaStore
	GetElement(ctx context.Context, id string) (*model.Element, error)
}

var errMediaNotFound = apperr.NotFound("Media not found")

// Service 媒体附件服务
//
// 附件只通过 elementId 引用条目，删除条目不会级联删除附件。
type Service struct {
	store   Store
	files   assets.Store
	cleaner *assets.Cleaner
	now     func() time.Time
}

// NewService 创建媒体服务
func NewService(store Store, cleaner *assets.Cleaner) *Service {
	return &Service{store: store, files: cleaner.Store(), cleaner: cleaner, now: time.Now}
}

// Upload 为已存在的条目保存附件
//
// 条目存在性在写文件之前检查，失败时不会在媒体目录留下文件。
func (s *Service) Upload(ctx context.Context, elementID, kind string, file *assets.Upload) (*model.Media, error) {
	elementID = strings.TrimSpace(elementID)
	kind = strings.TrimSpace(kind)
	if elementID == "" || kind == "" {
		return nil, apperr.Validation("Element ID and media type are required")
	}
	if file == nil {
		return nil, apperr.Validation("Media file is required")
	}
	mediaKind := model.MediaKind(kind)
	if !mediaKind.Valid() {
		return nil, apperr.Validation("Media type must be photo or video")
	}
	if !model.ValidID(elementID) {
		return nil, apperr.Validation("Invalid element ID")
	}

	element, err := s.store.GetElement(ctx, elementID)
	if err != nil {
		return nil, apperr.Storage("get element", err)
	}
	if element == nil {
		return nil, apperr.NotFound("Element not found")
	}

	stored, err := s.files.Save(ctx, assets.MediaDir, file)
	if err != nil {
		return nil, apperr.Storage("save media file", err)
	}

	m := &model.Media{
		ID:           model.NewID(),
		ElementID:    element.ID,
		Filename:     stored.Filename,
		OriginalName: file.Name,
		Path:         stored.Path,
		Type:         mediaKind,
		UploadedAt:   s.now().UTC(),
	}
	if err := s.store.CreateMedia(ctx, m); err != nil {
		s.cleaner.Remove(ctx, stored.Path)
		return nil, apperr.Storage("create media", err)
	}

	log.Printf("[media] Uploaded %s %s for element %s", m.Type, m.Filename, m.ElementID)
	return m, nil
}

// ListByElement 条目的附件，按上传时间倒序
func (s *Service) ListByElement(ctx context.Context, elementID string) ([]*model.Media, error) {
	list, err := s.store.ListMediaByElement(ctx, elementID)
	if err != nil {
		return nil, apperr.Storage("list media", err)
	}
	return list, nil
}

// Delete 尽力删除文件后删除记录
func (s *Service) Delete(ctx context.Context, id string) error {
	if !model.ValidID(id) {
		return errMediaNotFound
	}
	m, err := s.store.GetMedia(ctx, id)
	if err != nil {
		return apperr.Storage("get media", err)
	}
	if m == nil {
		return errMediaNotFound
	}

	s.cleaner.Remove(ctx, m.Path)
	if err := s.store.DeleteMedia(ctx, m.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errMediaNotFound
		}
		return apperr.Storage("delete media", err)
	}
	return nil
}
