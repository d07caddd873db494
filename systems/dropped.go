package systems

import (
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/automoto/avatarview/components"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

// ErrNoModelFile is returned when a dropped file set holds no .glb file.
var ErrNoModelFile = errors.New("no .glb file dropped")

// NewDroppedFileLoader returns a system that replaces the model with a .glb
// file dropped onto the window. A file that fails to load leaves the
// current model in place.
func NewDroppedFileLoader(loaders Loaders) func(*ecs.ECS) {
	logger := loaders.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(e *ecs.ECS) {
		files := ebiten.DroppedFiles()
		if files == nil {
			return
		}
		name, err := LoadDroppedModel(e, loaders, files)
		if err != nil {
			logger.Warn("dropped model rejected", zap.String("file", name), zap.Error(err))
			setDebugMessage(e, "load failed: "+err.Error())
			return
		}
		setDebugMessage(e, "loaded "+name)
	}
}

// LoadDroppedModel loads the first .glb file found at the root of files.
func LoadDroppedModel(e *ecs.ECS, loaders Loaders, files fs.FS) (string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(path.Ext(entry.Name()), ".glb") {
			continue
		}
		data, err := fs.ReadFile(files, entry.Name())
		if err != nil {
			return entry.Name(), err
		}
		if _, err := LoadModel(e, loaders, data); err != nil {
			return entry.Name(), err
		}
		return entry.Name(), nil
	}
	return "", ErrNoModelFile
}

func setDebugMessage(e *ecs.ECS, msg string) {
	if entry, ok := components.Debug.First(e.World); ok {
		components.Debug.Get(entry).Message = msg
	}
}
