// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package verification

import (
	"context"
	"errors"
	"sync"

	"github.com/bazaari/bazaari/pkg/uuid"
)

// ErrCameraDenied is returned by [Camera.Acquire] when the user refused access.
var ErrCameraDenied = errors.New("camera access denied")

// ErrNoFrame is returned by [Camera.Capture] when nothing was delivered.
var ErrNoFrame = errors.New("no frame delivered")

// Facing selects the lens. Identity documents use the rear camera.
type Facing string

const FacingEnvironment Facing = "environment"

// Handle identifies one acquired camera stream.
type Handle string

// Camera is a live capture capability. Every acquired handle must be released.
type Camera interface {
	Acquire(ctx context.Context, facing Facing) (Handle, error)
	Capture(ctx context.Context, handle Handle) ([]byte, error)
	Release(handle Handle)
}

// # Capture Scope

// captureScope owns one acquired handle. close is safe to call from every
// exit path; only the first call releases.
type captureScope struct {
	camera Camera
	handle Handle
	side   Side
	once   sync.Once
}

func openScope(ctx context.Context, camera Camera, side Side) (*captureScope, error) {
	handle, err := camera.Acquire(ctx, FacingEnvironment)
	if err != nil {
		return nil, err
	}
	return &captureScope{camera: camera, handle: handle, side: side}, nil
}

func (scope *captureScope) capture(ctx context.Context) ([]byte, error) {
	return scope.camera.Capture(ctx, scope.handle)
}

func (scope *captureScope) close() {
	scope.once.Do(func() {
		scope.camera.Release(scope.handle)
	})
}

// # Upload Camera

type uploadKey int

const (
	frameKey uploadKey = iota
	deniedKey
)

// WithFrame attaches an uploaded frame to ctx for [UploadCamera.Capture].
func WithFrame(ctx context.Context, frame []byte) context.Context {
	return context.WithValue(ctx, frameKey, frame)
}

// WithPermissionDenied marks ctx as coming from a client whose camera prompt was refused.
func WithPermissionDenied(ctx context.Context) context.Context {
	return context.WithValue(ctx, deniedKey, true)
}

// UploadCamera is the server side of a browser camera. Acquire opens a
// stream slot, and the frame arrives with the capture request itself.
type UploadCamera struct {
	mu   sync.Mutex
	live map[Handle]struct{}
}

// NewUploadCamera creates a camera with no open streams.
func NewUploadCamera() *UploadCamera {
	return &UploadCamera{live: make(map[Handle]struct{})}
}

// Acquire implements [Camera].
func (camera *UploadCamera) Acquire(ctx context.Context, _ Facing) (Handle, error) {
	if denied, _ := ctx.Value(deniedKey).(bool); denied {
		return "", ErrCameraDenied
	}

	handle := Handle(uuid.New())
	camera.mu.Lock()
	camera.live[handle] = struct{}{}
	camera.mu.Unlock()
	return handle, nil
}

// Capture implements [Camera].
func (camera *UploadCamera) Capture(ctx context.Context, handle Handle) ([]byte, error) {
	camera.mu.Lock()
	_, ok := camera.live[handle]
	camera.mu.Unlock()
	if !ok {
		return nil, ErrNoFrame
	}

	frame, _ := ctx.Value(frameKey).([]byte)
	if len(frame) == 0 {
		return nil, ErrNoFrame
	}
	return frame, nil
}

// Release implements [Camera].
func (camera *UploadCamera) Release(handle Handle) {
	camera.mu.Lock()
	defer camera.mu.Unlock()
	delete(camera.live, handle)
}

// Live returns the number of handles not yet released.
func (camera *UploadCamera) Live() int {
	camera.mu.Lock()
	defer camera.mu.Unlock()
	return len(camera.live)
}
