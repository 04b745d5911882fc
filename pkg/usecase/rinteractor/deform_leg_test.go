// 指示: miu200521358
package rinteractor

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

func TestInterpolateLegsAppliesGroundingOffset(t *testing.T) {
	tracked := buildHumanoidSkeleton(t)
	target := buildHumanoidSkeleton(t)
	config := NewDeformConfig()
	config.LegWeights = [2]float64{1, 1}
	usecase := mustDeformUsecase(t, tracked, target, config)

	trackedFoot := mmath.NewVec3(0.1, 0.15, 0)
	tracked.SetJointWorldPosition(model.LEFT_FOOT, trackedFoot)

	footTargets, footOffsets := usecase.interpolateLegs(mmath.OneVec3(), 1)

	if !footOffsets[0].NearEquals(mmath.NewVec3(0, 0.1, 0), 1e-12) {
		t.Fatalf("foot offset mismatch: got=%v", footOffsets[0])
	}
	if !footTargets[0].NearEquals(trackedFoot, 1e-12) {
		t.Fatalf("foot target mismatch: got=%v expected=%v", footTargets[0], trackedFoot)
	}

	upperLeg, _ := target.Joint(model.LEFT_UPPER_LEG)
	lowerLeg, _ := target.Joint(model.LEFT_LOWER_LEG)
	foot, _ := target.Joint(model.LEFT_FOOT)
	if !upperLeg.WorldPosition().NearEquals(mmath.NewVec3(0.1, 1.05, 0), 1e-12) {
		t.Fatalf("upper leg not shifted: got=%v", upperLeg.WorldPosition())
	}
	if !lowerLeg.WorldPosition().NearEquals(mmath.NewVec3(0.1, 0.6, 0), 1e-12) {
		t.Fatalf("lower leg not shifted: got=%v", lowerLeg.WorldPosition())
	}
	if !foot.WorldPosition().NearEquals(mmath.NewVec3(0.1, 0.15, 0), 1e-12) {
		t.Fatalf("foot not shifted: got=%v", foot.WorldPosition())
	}
}

func TestInterpolateLegsIgnoresNonFiniteTrackedFoot(t *testing.T) {
	tracked := buildHumanoidSkeleton(t)
	target := buildHumanoidSkeleton(t)
	config := NewDeformConfig()
	config.LegWeights = [2]float64{1, 1}
	usecase := mustDeformUsecase(t, tracked, target, config)

	tracked.SetJointWorldPosition(model.LEFT_FOOT, mmath.NewVec3(math.NaN(), 0, 0))
	foot, _ := target.Joint(model.LEFT_FOOT)
	before := foot.WorldPosition()

	footTargets, footOffsets := usecase.interpolateLegs(mmath.OneVec3(), 1)

	if footOffsets[0] != mmath.ZeroVec3() {
		t.Fatalf("offset applied for non-finite tracked foot: got=%v", footOffsets[0])
	}
	if footTargets[0] != before {
		t.Fatalf("foot target not current position: got=%v expected=%v", footTargets[0], before)
	}
	if foot.WorldPosition() != before {
		t.Fatalf("foot moved: got=%v", foot.WorldPosition())
	}
}

func TestAlignFeetRotatesOnlyAroundLocalUp(t *testing.T) {
	tracked := buildHumanoidSkeleton(t)
	target := buildHumanoidSkeleton(t)
	usecase := mustDeformUsecase(t, tracked, target, NewDeformConfig())

	// トラッキング側の足-つま先方向をY軸まわりに90度回す
	trackedFoot, _ := tracked.Joint(model.LEFT_FOOT)
	tracked.SetJointWorldPosition(model.LEFT_TOES,
		trackedFoot.WorldPosition().Added(mmath.NewVec3(0.1, -0.05, 0)))

	usecase.alignFeet(1)

	foot, _ := target.Joint(model.LEFT_FOOT)
	rotation := foot.WorldRotation()
	up := rotation.MulVec3(mmath.UnitYVec3())
	if !up.NearEquals(mmath.UnitYVec3(), 1e-9) {
		t.Fatalf("local up axis changed: got=%v", up)
	}
	forward := rotation.MulVec3(mmath.NewVec3(0, 0, 1))
	if !forward.NearEquals(mmath.NewVec3(1, 0, 0), 1e-9) {
		t.Fatalf("foot direction not aligned: got=%v", forward)
	}
}

func TestAlignFeetWithoutToesSlerpsToRestLocalRotation(t *testing.T) {
	tracked := buildHumanoidSkeleton(t, model.LEFT_TOES, model.RIGHT_TOES)
	target := buildHumanoidSkeleton(t, model.LEFT_TOES, model.RIGHT_TOES)
	usecase := mustDeformUsecase(t, tracked, target, NewDeformConfig())

	target.SetJointLocalRotation(model.LEFT_FOOT,
		mmath.NewQuaternionAxisAngle(mmath.UnitYVec3(), math.Pi/2))
	usecase.alignFeet(1)

	foot, _ := target.Joint(model.LEFT_FOOT)
	if !foot.LocalRotation.NearEquals(target.RestLocalRotation(model.LEFT_FOOT), 1e-9) {
		t.Fatalf("foot rotation not restored: got=%v", foot.LocalRotation)
	}
}

func TestInterpolateToeYOnlyAdjustsVertical(t *testing.T) {
	tracked := buildHumanoidSkeleton(t)
	target := buildHumanoidSkeleton(t)
	usecase := mustDeformUsecase(t, tracked, target, NewDeformConfig())

	target.SetJointWorldPosition(model.LEFT_TOES, mmath.NewVec3(0.12, 0.3, 0.15))
	usecase.interpolateToeY(1)

	toes, _ := target.Joint(model.LEFT_TOES)
	expected := mmath.NewVec3(0.12, 0, 0.15)
	if !toes.WorldPosition().NearEquals(expected, 1e-12) {
		t.Fatalf("toe position mismatch: got=%v expected=%v", toes.WorldPosition(), expected)
	}
}

func TestApplyAccurateFeetSnapsToTargets(t *testing.T) {
	tracked := buildHumanoidSkeleton(t)
	target := buildHumanoidSkeleton(t)
	usecase := mustDeformUsecase(t, tracked, target, NewDeformConfig())

	targets := [2]mmath.Vec3{mmath.NewVec3(0.2, 0.1, 0.1), mmath.NewVec3(-0.2, 0.1, 0.1)}
	usecase.applyAccurateFeet(targets, 1)

	for side := 0; side < 2; side++ {
		foot, _ := target.Joint(model.FOOT.Both()[side])
		if !foot.WorldPosition().NearEquals(targets[side], 1e-12) {
			t.Fatalf("foot not snapped: side=%d got=%v expected=%v",
				side, foot.WorldPosition(), targets[side])
		}
	}
}
