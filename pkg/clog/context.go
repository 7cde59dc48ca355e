package clog

import (
	"context"
	"sync"
)

type attrBag struct {
	mu    sync.RWMutex
	attrs map[string]any
}

type attrBagKey struct{}

// ContextWithAttrs arms ctx with a mutable attribute bag. Attributes added
// later anywhere down the call chain are attached to every log record
// emitted with this context.
func ContextWithAttrs(ctx context.Context) context.Context {
	return context.WithValue(ctx, attrBagKey{}, &attrBag{attrs: make(map[string]any)})
}

func AddAttr(ctx context.Context, key string, value any) {
	bag, ok := ctx.Value(attrBagKey{}).(*attrBag)
	if !ok {
		return
	}
	bag.mu.Lock()
	bag.attrs[key] = value
	bag.mu.Unlock()
}

const ErrorAttributeKey = "error.message"

func AddError(ctx context.Context, err error) {
	AddAttr(ctx, ErrorAttributeKey, err)
}

func Attributes(ctx context.Context) map[string]any {
	bag, ok := ctx.Value(attrBagKey{}).(*attrBag)
	if !ok {
		return nil
	}
	bag.mu.RLock()
	defer bag.mu.RUnlock()
	copied := make(map[string]any, len(bag.attrs))
	for k, v := range bag.attrs {
		copied[k] = v
	}
	return copied
}
