// 指示: miu200521358
package rinteractor

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

func TestNewDeformParamsBuildsSpineChain(t *testing.T) {
	target := buildHumanoidSkeleton(t)
	params, err := NewDeformParams(target)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	expected := []model.JointId{
		model.HIPS, model.SPINE, model.CHEST, model.UPPER_CHEST, model.NECK, model.HEAD,
	}
	if len(params.SpineChain) != len(expected) {
		t.Fatalf("spine chain length mismatch: got=%d expected=%d", len(params.SpineChain), len(expected))
	}
	for i, joint := range expected {
		if params.SpineChain[i] != joint {
			t.Fatalf("spine chain mismatch at %d: got=%s expected=%s", i, params.SpineChain[i], joint)
		}
	}

	if params.SpineHeightProportions[0] != 0 {
		t.Fatalf("hips proportion not zero: got=%f", params.SpineHeightProportions[0])
	}
	last := params.SpineHeightProportions[len(params.SpineHeightProportions)-1]
	if math.Abs(last-1.0) > 1e-12 {
		t.Fatalf("head proportion not one: got=%f", last)
	}
	if math.Abs(params.TotalHeight-0.55) > 1e-12 {
		t.Fatalf("total height mismatch: got=%f expected=0.55", params.TotalHeight)
	}
}

func TestNewDeformParamsRequiresHipsAndHead(t *testing.T) {
	target := buildHumanoidSkeleton(t, model.HEAD)
	if _, err := NewDeformParams(target); err == nil {
		t.Fatalf("missing head accepted")
	}
}

func TestLegPairsStartWithFullLimbProportion(t *testing.T) {
	target := buildHumanoidSkeleton(t)
	params, err := NewDeformParams(target)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	for side := 0; side < 2; side++ {
		pairs := params.LegPairs[side]
		if len(pairs) != 3 {
			t.Fatalf("leg pair count mismatch: side=%d got=%d expected=3", side, len(pairs))
		}
		if pairs[0].LimbProportion != 1.0 {
			t.Fatalf("first leg proportion not full: side=%d got=%f", side, pairs[0].LimbProportion)
		}
		for i := 1; i < len(pairs); i++ {
			if pairs[i].LimbProportion >= pairs[i-1].LimbProportion {
				t.Fatalf("limb proportion not decreasing: side=%d index=%d", side, i)
			}
		}
	}
}

func TestShoulderFallsBackToUpperArm(t *testing.T) {
	target := buildHumanoidSkeleton(t, model.LEFT_SHOULDER, model.RIGHT_SHOULDER)
	params, err := NewDeformParams(target)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if params.HasShoulder[0] || params.HasShoulder[1] {
		t.Fatalf("shoulder reported present")
	}
	if params.ShoulderJoints[0] != model.LEFT_UPPER_ARM ||
		params.ShoulderJoints[1] != model.RIGHT_UPPER_ARM {
		t.Fatalf("shoulder fallback mismatch: got=%v", params.ShoulderJoints)
	}
	if !params.HasShoulderParent[0] || params.ShoulderParents[0] != model.UPPER_CHEST {
		t.Fatalf("fallback parent mismatch: got=%s", params.ShoulderParents[0])
	}
}

func TestScaleFactorFallsBackOnZeroRestScale(t *testing.T) {
	target := buildHumanoidSkeleton(t)
	target.SetRestScale(mmath.ZeroVec3())
	if got := ScaleFactor(target); got != mmath.OneVec3() {
		t.Fatalf("zero rest scale not neutralized: got=%v", got)
	}

	target.SetRestScale(mmath.OneVec3())
	target.SetCurrentScale(mmath.NewVec3(2, 3, 4))
	if got := ScaleFactor(target); !got.NearEquals(mmath.NewVec3(2, 3, 4), 1e-12) {
		t.Fatalf("scale factor mismatch: got=%v", got)
	}
}
