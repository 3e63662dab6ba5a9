package pad

import (
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var easings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"inoutsine":  ease.InOutSine,
	"outbounce":  ease.OutBounce,
	"outelastic": ease.OutElastic,
}

// ParseEase looks up an easing function by name, ignoring case. Empty
// selects outQuad.
func ParseEase(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.OutQuad, nil
	}
	fn, ok := easings[strings.ToLower(name)]
	if !ok {
		return nil, NewError(CodeInvalidConfig, "unknown easing %q", name)
	}
	return fn, nil
}

// Animator eases an element's displayed transform toward each newly
// published matrix instead of snapping to it. Install one with
// TransformStack.SetAnimator.
type Animator struct {
	Duration float32 // seconds
	Ease     ease.TweenFunc
}

// NewAnimator returns an animator with the given duration in seconds. A nil
// easing function selects ease.OutQuad.
func NewAnimator(duration float32, fn ease.TweenFunc) *Animator {
	if fn == nil {
		fn = ease.OutQuad
	}
	return &Animator{Duration: duration, Ease: fn}
}

// tweenJob animates the six matrix components of one element's displayed
// transform. Interpolating components directly is exact at both ends, which
// is all the presentation needs.
type tweenJob struct {
	el     *Element
	tweens [6]*gween.Tween
	done   bool
}

func (j *tweenJob) update(dt float32) {
	if j.done {
		return
	}
	allDone := true
	for i, tw := range j.tweens {
		val, finished := tw.Update(dt)
		j.el.transform[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if allDone {
		// Snap to the float64 target; the tween runs in float32.
		j.el.transform = j.el.tweenTarget
		j.done = true
	}
}

// start replaces any running tween on el with one toward m.
func (a *Animator) start(el *Element, m Matrix) {
	el.cancelTween()
	if a.Duration <= 0 {
		el.transform = m
		return
	}
	j := &tweenJob{el: el}
	for i := range j.tweens {
		j.tweens[i] = gween.New(float32(el.transform[i]), float32(m[i]), a.Duration, a.Ease)
	}
	el.tween = j
	el.tweenTarget = m
	el.doc.tweens = append(el.doc.tweens, j)
}

// cancelTween stops the element's running tween, leaving the displayed
// transform where the tween last wrote it.
func (e *Element) cancelTween() {
	if e.tween == nil {
		return
	}
	e.tween.done = true
	e.tween = nil
}

// Animating reports whether the element's displayed transform is mid-tween.
func (e *Element) Animating() bool {
	return e.tween != nil && !e.tween.done
}

// updateTweens advances all active tweens by dt seconds and drops the
// finished ones.
func (d *Document) updateTweens(dt float32) {
	if len(d.tweens) == 0 {
		return
	}
	keep := d.tweens[:0]
	for _, j := range d.tweens {
		j.update(dt)
		if j.done {
			if j.el.tween == j {
				j.el.tween = nil
			}
			continue
		}
		keep = append(keep, j)
	}
	clear(d.tweens[len(keep):])
	d.tweens = keep
}
