package runner

import "errors"

var (
	ErrNilConfig    = errors.New("config is nil")
	ErrNilLoader    = errors.New("script loader is nil")
	ErrNilEngine    = errors.New("engine factory is nil")
	ErrScanDir      = errors.New("failed to scan script directory")
	ErrWatch        = errors.New("failed to watch script directory")
	ErrEngineCreate = errors.New("failed to create engine")
)
