package systems

import (
	"fmt"
	"math"

	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/config"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

// AdvanceAnimation poses the loaded model at elapsed seconds into its
// configured animation, looping over the track duration. A model without
// tracks is reported once and left in its bind pose. Animator failures are
// logged and never stop the frame.
func AdvanceAnimation(e *ecs.ECS, elapsed float64, logger *zap.Logger) {
	entry, ok := components.Model.First(e.World)
	if !ok {
		return
	}
	model := components.Model.Get(entry)
	if model.Animator == nil || model.Animator.AnimationCount() == 0 {
		if !model.NoAnimationReported {
			model.NoAnimationReported = true
			logger.Warn("rendering static pose", zap.Error(ErrNoAnimation))
		}
		return
	}

	index := config.Asset.AnimationIndex
	if index < 0 || index >= model.Animator.AnimationCount() {
		index = 0
	}
	t := elapsed
	if d := model.Animator.AnimationDuration(index); d > 0 {
		t = math.Mod(elapsed, d)
	}

	if err := applyAnimation(model.Animator, index, t); err != nil {
		logger.Error("animation frame skipped", zap.Error(err))
	}
}

func applyAnimation(a components.Animator, index int, t float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &AnimationApplyError{Animation: index, Time: t, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := a.ApplyAnimation(index, t); err != nil {
		return &AnimationApplyError{Animation: index, Time: t, Err: err}
	}
	return nil
}
