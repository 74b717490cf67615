package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "sierpinski.flame")
	p.OnLoadComplete(ctx, "sierpinski.flame", 3, time.Second, nil)
	p.OnComposeStart(ctx, 5)
	p.OnComposeComplete(ctx, 2, 5, time.Second, nil)
	p.OnShaderStart(ctx, "validate")
	p.OnShaderComplete(ctx, "validate", 0, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "kernel")
	c.OnCacheMiss(ctx, "spirv")
	c.OnCacheSet(ctx, "kernel", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/compose", "id")
	h.OnResponse(ctx, "POST", "/v1/compose", "id", 200, time.Second)
	h.OnError(ctx, "POST", "/v1/compose", "id", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
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
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestLogPipelineHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogPipelineHooks(logger)
	ctx := context.Background()

	h.OnComposeComplete(ctx, 3, 7, time.Millisecond, nil)
	h.OnShaderComplete(ctx, "compile", 0, time.Millisecond, errors.New("bad shader"))
	h.OnCacheHit(ctx, "spirv")

	out := buf.String()
	for _, want := range []string{"composed", "libraries=3", "blocks=7", "bad shader", "cache hit", "type=spirv"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
