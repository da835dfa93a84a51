package ffi

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	waku "github.com/waku-org/waku-go-bindings"
	"github.com/waku-org/waku-go-bindings/errors"
)

func TestCallEmpty_CallbackFires(t *testing.T) {
	err := CallEmpty(context.Background(), "relay_subscribe", func(cb waku.Callback) waku.Status {
		cb(waku.StatusOK, nil)
		return waku.StatusOK
	})
	require.NoError(t, err)
}

func TestCallEmpty_OKWithoutCallback(t *testing.T) {
	// Some native operations only run the callback on error. A plain
	// StatusOK return with no completion is success, not an undefined
	// state.
	err := CallEmpty(context.Background(), "relay_subscribe", func(cb waku.Callback) waku.Status {
		return waku.StatusOK
	})
	require.NoError(t, err)
}

func TestCallEmpty_ErrorStatusAwaitsCallback(t *testing.T) {
	// Completion arrives from another goroutine after the native call
	// already returned its error status.
	err := CallEmpty(context.Background(), "relay_unsubscribe", func(cb waku.Callback) waku.Status {
		go func() {
			time.Sleep(5 * time.Millisecond)
			cb(waku.StatusErr, []byte("not subscribed"))
		}()
		return waku.StatusErr
	})
	require.Error(t, err)

	var bridgeErr *errors.Error
	require.ErrorAs(t, err, &bridgeErr)
	assert.Equal(t, errors.KindNativeFailure, bridgeErr.Kind)
	assert.Equal(t, "not subscribed", bridgeErr.Detail)
}

func TestCallEmpty_SuccessPayloadIgnored(t *testing.T) {
	err := CallEmpty(context.Background(), "stop", func(cb waku.Callback) waku.Status {
		cb(waku.StatusOK, []byte(`{"ignored":true}`))
		return waku.StatusOK
	})
	require.NoError(t, err)
}

func TestCallString_ErrorMessageVerbatim(t *testing.T) {
	const native = "waku error: could not publish: not enough peers"
	_, err := CallString(context.Background(), "relay_publish", func(cb waku.Callback) waku.Status {
		cb(waku.StatusErr, []byte(native))
		return waku.StatusErr
	})
	require.Error(t, err)

	var bridgeErr *errors.Error
	require.ErrorAs(t, err, &bridgeErr)
	assert.Equal(t, native, bridgeErr.Detail)
}

func TestCallString_CompletesAfterReturn(t *testing.T) {
	got, err := CallString(context.Background(), "version", func(cb waku.Callback) waku.Status {
		go func() {
			time.Sleep(5 * time.Millisecond)
			cb(waku.StatusOK, []byte("0.35.1"))
		}()
		return waku.StatusOK
	})
	require.NoError(t, err)
	assert.Equal(t, "0.35.1", got)
}

func TestCallString_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CallString(ctx, "version", func(cb waku.Callback) waku.Status {
		// callback never fires; the waiter must give up with the
		// context error, leaving the slot valid for a late completion
		return waku.StatusOK
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCallJSON(t *testing.T) {
	type versionInfo struct {
		Version string `json:"version"`
	}
	got, err := CallJSON[versionInfo](context.Background(), "version", func(cb waku.Callback) waku.Status {
		cb(waku.StatusOK, []byte(`{"version":"0.35.1"}`))
		return waku.StatusOK
	})
	require.NoError(t, err)
	assert.Equal(t, "0.35.1", got.Version)
}

func TestCallJSON_MalformedPayloadPanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = CallJSON[map[string]any](context.Background(), "version", func(cb waku.Callback) waku.Status {
			cb(waku.StatusOK, []byte("{not json"))
			return waku.StatusOK
		})
	})
}

func TestCallParsed(t *testing.T) {
	got, err := CallParsed(context.Background(), "default_pubsub_topic", func(cb waku.Callback) waku.Status {
		cb(waku.StatusOK, []byte("/waku/2/default-waku/proto"))
		return waku.StatusOK
	}, func(s string) (string, error) {
		return s, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "/waku/2/default-waku/proto", got)
}

func TestCallCreate(t *testing.T) {
	ref, err := CallCreate(context.Background(), "new", func(cb waku.Callback) waku.NodeRef {
		cb(waku.StatusOK, nil)
		return waku.NodeRef(0xdead)
	})
	require.NoError(t, err)
	assert.Equal(t, waku.NodeRef(0xdead), ref)
}

func TestCallCreate_Failure(t *testing.T) {
	ref, err := CallCreate(context.Background(), "new", func(cb waku.Callback) waku.NodeRef {
		cb(waku.StatusErr, []byte("invalid config: unknown field"))
		return waku.NilNodeRef
	})
	require.Error(t, err)
	assert.Equal(t, waku.NilNodeRef, ref)
	assert.Contains(t, err.Error(), "invalid config: unknown field")
}

func TestCallCreate_NilRefWithSuccess(t *testing.T) {
	_, err := CallCreate(context.Background(), "new", func(cb waku.Callback) waku.NodeRef {
		cb(waku.StatusOK, nil)
		return waku.NilNodeRef
	})
	require.Error(t, err)
}

func TestConcurrentCalls_NoCrossTalk(t *testing.T) {
	// Two concurrent calls whose completions arrive in reverse order must
	// each resolve their own slot with their own payload.
	release := make(chan struct{})
	var wg sync.WaitGroup
	results := make([]string, 2)
	errs := make([]error, 2)

	var cbFirst waku.Callback
	captured := make(chan struct{})

	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0], errs[0] = CallString(context.Background(), "first", func(cb waku.Callback) waku.Status {
			cbFirst = cb
			close(captured)
			return waku.StatusOK
		})
	}()
	go func() {
		defer wg.Done()
		<-captured
		results[1], errs[1] = CallString(context.Background(), "second", func(cb waku.Callback) waku.Status {
			go func() {
				cb(waku.StatusOK, []byte("second result"))
				close(release)
			}()
			return waku.StatusOK
		})
	}()

	// complete the second call first, then the first
	<-release
	cbFirst(waku.StatusOK, []byte("first result"))
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, "first result", results[0])
	assert.Equal(t, "second result", results[1])
}

func TestPending_DoubleFireIgnored(t *testing.T) {
	p := newPending()
	cb := p.callback()
	cb(waku.StatusOK, []byte("first"))
	cb(waku.StatusErr, []byte("second"))

	r, err := p.wait(context.Background(), "test")
	require.NoError(t, err)
	got, err := classifyValue("test", waku.StatusOK, r)
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestClassify_InvalidUTF8Panics(t *testing.T) {
	assert.Panics(t, func() {
		classify(waku.StatusOK, []byte{0xff, 0xfe, 0xfd})
	})
}

func TestClassify_UnknownStatusPanics(t *testing.T) {
	assert.Panics(t, func() {
		classify(waku.Status(42), nil)
	})
}

func TestClassifyEmpty(t *testing.T) {
	t.Run("undefined with ok status is success", func(t *testing.T) {
		require.NoError(t, classifyEmpty("op", waku.StatusOK, Response{}))
	})
	t.Run("undefined with error status panics", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = classifyEmpty("op", waku.StatusErr, Response{})
		})
	})
	t.Run("missing callback panics", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = classifyEmpty("op", waku.StatusOK, classify(waku.StatusMissingCallback, nil))
		})
	})
}

func TestClassifyValue_UndefinedPanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = classifyValue("op", waku.StatusOK, Response{})
	})
}
