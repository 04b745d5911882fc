// 指示: miu200521358
package rinteractor

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

func TestDeformZeroWeightIsPassThrough(t *testing.T) {
	tracked := buildHumanoidSkeleton(t)
	target := buildHumanoidSkeleton(t)
	config := NewDeformConfig()
	config.SpineMode = model.SPINE_CORRECTION_ACCURATE_HIPS_AND_HEAD
	config.SpineAlignmentWeights = [3]float64{1, 1, 1}
	config.LegWeights = [2]float64{1, 1}
	config.ArmWeights = [2]float64{1, 1}
	usecase := mustDeformUsecase(t, tracked, target, config)

	tracked.SetJointWorldPosition(model.HIPS, mmath.NewVec3(0.5, 1.2, 0.3))
	tracked.SetJointWorldPosition(model.LEFT_FOOT, mmath.NewVec3(0.4, 0.3, 0))

	before := capturePose(target)
	usecase.Deform(0)
	after := capturePose(target)

	for id := model.JointId(0); id < model.JOINT_ID_COUNT; id++ {
		if after[id].Position != before[id].Position {
			t.Fatalf("position changed at zero weight: joint=%s", id)
		}
		if after[id].Rotation != before[id].Rotation {
			t.Fatalf("rotation changed at zero weight: joint=%s", id)
		}
	}
}

func TestEnforceProportionsRestoresRestDistance(t *testing.T) {
	tracked := buildHumanoidSkeleton(t)
	target := buildHumanoidSkeleton(t)
	usecase := mustDeformUsecase(t, tracked, target, NewDeformConfig())

	// 前腕-手セグメントをレスト長0.25から0.55へ引き伸ばす
	target.SetJointWorldPosition(model.LEFT_HAND, mmath.NewVec3(0.95, 1.35, 0))

	directions := usecase.recomputeBoneDirections()
	usecase.enforceProportions(directions, mmath.OneVec3(), 1)

	lowerArm, _ := target.Joint(model.LEFT_LOWER_ARM)
	hand, _ := target.Joint(model.LEFT_HAND)
	restDistance := target.RestWorldPosition(model.LEFT_LOWER_ARM).Distance(
		target.RestWorldPosition(model.LEFT_HAND))
	if got := hand.WorldPosition().Distance(lowerArm.WorldPosition()); math.Abs(got-restDistance) > 1e-9 {
		t.Fatalf("segment length not restored: got=%f expected=%f", got, restDistance)
	}
	if !hand.WorldPosition().NearEquals(mmath.NewVec3(0.65, 1.35, 0), 1e-9) {
		t.Fatalf("hand position mismatch: got=%v", hand.WorldPosition())
	}
}

func TestEnforceProportionsAppliesScale(t *testing.T) {
	tracked := buildHumanoidSkeleton(t)
	target := buildHumanoidSkeleton(t)
	usecase := mustDeformUsecase(t, tracked, target, NewDeformConfig())

	directions := usecase.recomputeBoneDirections()
	usecase.enforceProportions(directions, mmath.NewVec3(2, 2, 2), 1)

	lowerArm, _ := target.Joint(model.LEFT_LOWER_ARM)
	hand, _ := target.Joint(model.LEFT_HAND)
	restDistance := target.RestWorldPosition(model.LEFT_LOWER_ARM).Distance(
		target.RestWorldPosition(model.LEFT_HAND))
	if got := hand.WorldPosition().Distance(lowerArm.WorldPosition()); math.Abs(got-restDistance*2) > 1e-9 {
		t.Fatalf("scaled length mismatch: got=%f expected=%f", got, restDistance*2)
	}
}

func TestCustomAdjustmentsMoveFlaggedChildrenOnly(t *testing.T) {
	tracked := buildHumanoidSkeleton(t)
	target := buildHumanoidSkeleton(t)
	config := NewDeformConfig()
	config.BoneAdjustments = []model.BoneAdjustmentEntry{{
		MainJoint:            model.LEFT_LOWER_ARM,
		RotationAdjustment:   mmath.NewQuaternionAxisAngle(mmath.UnitYVec3(), math.Pi/2),
		Children:             []model.JointId{model.LEFT_HAND, model.NECK},
		RestorePositionFlags: [3]bool{true, true, false},
	}}
	usecase := mustDeformUsecase(t, tracked, target, config)

	main, _ := target.Joint(model.LEFT_LOWER_ARM)
	mainBefore := main.WorldPosition()
	mainRotationBefore := main.WorldRotation()
	neck, _ := target.Joint(model.NECK)
	neckBefore := neck.WorldPosition()

	usecase.applyCustomAdjustments(1)

	// 手は主関節まわりにY軸90度回転した位置へ動く
	hand, _ := target.Joint(model.LEFT_HAND)
	expected := mmath.NewVec3(0.40, 1.35, -0.25)
	if !hand.WorldPosition().NearEquals(expected, 1e-9) {
		t.Fatalf("hand preview position mismatch: got=%v expected=%v", hand.WorldPosition(), expected)
	}
	// 首は除外対象のため動かない
	if neck.WorldPosition() != neckBefore {
		t.Fatalf("exempt child moved: got=%v expected=%v", neck.WorldPosition(), neckBefore)
	}
	// 主関節の姿勢は変更されない
	if main.WorldPosition() != mainBefore || main.WorldRotation() != mainRotationBefore {
		t.Fatalf("main joint pose changed")
	}
}

func TestNewBodyDeformUsecaseClonesBoneAdjustments(t *testing.T) {
	tracked := buildHumanoidSkeleton(t)
	target := buildHumanoidSkeleton(t)
	config := NewDeformConfig()
	config.BoneAdjustments = []model.BoneAdjustmentEntry{{
		MainJoint:            model.LEFT_LOWER_ARM,
		RotationAdjustment:   mmath.QuaternionIdent(),
		Children:             []model.JointId{model.LEFT_HAND},
		RestorePositionFlags: [3]bool{true},
	}}
	usecase := mustDeformUsecase(t, tracked, target, config)

	// 呼び出し側のスライス書き換えは保持済み設定へ波及しない
	config.BoneAdjustments[0].Children[0] = model.NECK

	kept := usecase.Config().BoneAdjustments
	if len(kept) != 1 || len(kept[0].Children) != 1 {
		t.Fatalf("bone adjustment shape mismatch: got=%v", kept)
	}
	if kept[0].Children[0] != model.LEFT_HAND {
		t.Fatalf("caller mutation leaked into kept config: got=%s", kept[0].Children[0])
	}
}

func TestInterpolateFromStartPoseBlendsHands(t *testing.T) {
	tracked := buildHumanoidSkeleton(t)
	target := buildHumanoidSkeleton(t)
	config := NewDeformConfig()
	config.HandWeights = [2]float64{1, 1}
	usecase := mustDeformUsecase(t, tracked, target, config)

	usecase.snapshotStartPose()
	hand, _ := target.Joint(model.LEFT_HAND)
	start := hand.WorldPosition()
	target.SetJointWorldPosition(model.LEFT_HAND, start.Added(mmath.NewVec3(0.2, 0, 0)))

	usecase.interpolateHands(0.5)

	expected := start.Added(mmath.NewVec3(0.1, 0, 0))
	if !hand.WorldPosition().NearEquals(expected, 1e-12) {
		t.Fatalf("hand interpolation mismatch: got=%v expected=%v", hand.WorldPosition(), expected)
	}
}
