package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSuggestHooks{}
	s.OnSuggestStart(ctx, "Fontastic", "Montserrat")
	s.OnSuggestComplete(ctx, time.Second, nil)

	e := NoopExportHooks{}
	e.OnExportStart(ctx, "png")
	e.OnExportComplete(ctx, "png", 2048, time.Second, errors.New("decode failed"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "suggestion")
	c.OnCacheMiss(ctx, "suggestion")
	c.OnCacheSet(ctx, "suggestion", 128)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "generativelanguage.googleapis.com", "/v1beta/models/gemini-2.0-flash:generateContent")
	h.OnResponse(ctx, "POST", "generativelanguage.googleapis.com", "/v1beta/models/gemini-2.0-flash:generateContent", 200, time.Second)
	h.OnError(ctx, "POST", "generativelanguage.googleapis.com", "/", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Suggest().(NoopSuggestHooks); !ok {
		t.Error("Suggest() should return NoopSuggestHooks by default")
	}
	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Export() should return NoopExportHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customSuggest := &testSuggestHooks{}
	SetSuggestHooks(customSuggest)
	if Suggest() != customSuggest {
		t.Error("SetSuggestHooks should set custom hooks")
	}

	customExport := &testExportHooks{}
	SetExportHooks(customExport)
	if Export() != customExport {
		t.Error("SetExportHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Suggest().(NoopSuggestHooks); !ok {
		t.Error("Reset() should restore NoopSuggestHooks")
	}
	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Reset() should restore NoopExportHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testExportHooks{}
	SetExportHooks(custom)
	SetExportHooks(nil)

	if Export() != custom {
		t.Error("SetExportHooks(nil) should be ignored")
	}

	Reset()
}

type testSuggestHooks struct{ NoopSuggestHooks }
type testExportHooks struct{ NoopExportHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
