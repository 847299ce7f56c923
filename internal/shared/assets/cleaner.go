package assets

import (
	"context"
	"log"
)

// Cleaner 尽力删除被替换或被删除记录关联的文件
//
// 删除失败只记日志并回调 OnFailure，从不返回错误给调用方。
// 默认头像等共享资源在 keep 集合中，永远不会被删除。
type Cleaner struct {
	store     Store
	keep      map[string]struct{}
	onFailure func(path string, err error)
}

// NewCleaner 创建清理器，keep 中的公开路径永不删除
func NewCleaner(store Store, keep ...string) *Cleaner {
	c := &Cleaner{store: store, keep: make(map[string]struct{}, len(keep))}
	for _, p := range keep {
		c.keep[p] = struct{}{}
	}
	return c
}

// OnFailure 注册删除失败回调（指标计数、结构化日志）
func (c *Cleaner) OnFailure(fn func(path string, err error)) {
	c.onFailure = fn
}

// Store 底层存储
func (c *Cleaner) Store() Store {
	return c.store
}

// Remove 依次删除 paths；空路径与受保护路径被跳过
func (c *Cleaner) Remove(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, ok := c.keep[p]; ok {
			continue
		}
		if err := c.store.Remove(ctx, p); err != nil {
			log.Printf("[assets] WARNING: failed to remove %s: %v", p, err)
			if c.onFailure != nil {
				c.onFailure(p, err)
			}
		}
	}
}
