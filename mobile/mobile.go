// Package mobile is the ebitenmobile binding of the viewer.
//
//	ebitenmobile bind -target android -javapkg com.automoto.avatarview -o avatarview.aar ./mobile
package mobile

import (
	"github.com/automoto/avatarview/app"
	"github.com/automoto/avatarview/assets"
	"github.com/automoto/avatarview/config"
	"github.com/automoto/avatarview/logging"
	"github.com/hajimehoshi/ebiten/v2/mobile"
	"go.uber.org/zap"
)

func init() {
	logger := zap.NewNop()
	if err := config.Apply(assets.DefaultConfig); err == nil {
		if l, err := logging.New(config.Log); err == nil {
			logger = l
		}
	}
	mobile.SetGame(app.NewGame(assets.Avatar, logger))
}

// Dummy is a dummy exported function.
//
// gomobile doesn't compile a package that doesn't include any exported function.
// Dummy forces gomobile to compile this package.
func Dummy() {}
