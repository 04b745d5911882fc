// 指示: miu200521358
package rinteractor

import (
	"testing"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

// humanoidLocalOffsets はテスト用ヒューマノイドのローカル位置を保持する。
var humanoidLocalOffsets = map[model.JointId]mmath.Vec3{
	model.HIPS:            mmath.NewVec3(0, 1.0, 0),
	model.SPINE:           mmath.NewVec3(0, 0.1, 0),
	model.CHEST:           mmath.NewVec3(0, 0.1, 0),
	model.UPPER_CHEST:     mmath.NewVec3(0, 0.1, 0),
	model.NECK:            mmath.NewVec3(0, 0.1, 0),
	model.HEAD:            mmath.NewVec3(0, 0.15, 0),
	model.LEFT_SHOULDER:   mmath.NewVec3(0.05, 0.05, 0),
	model.RIGHT_SHOULDER:  mmath.NewVec3(-0.05, 0.05, 0),
	model.LEFT_UPPER_ARM:  mmath.NewVec3(0.1, 0, 0),
	model.RIGHT_UPPER_ARM: mmath.NewVec3(-0.1, 0, 0),
	model.LEFT_LOWER_ARM:  mmath.NewVec3(0.25, 0, 0),
	model.RIGHT_LOWER_ARM: mmath.NewVec3(-0.25, 0, 0),
	model.LEFT_HAND:       mmath.NewVec3(0.25, 0, 0),
	model.RIGHT_HAND:      mmath.NewVec3(-0.25, 0, 0),
	model.LEFT_UPPER_LEG:  mmath.NewVec3(0.1, -0.05, 0),
	model.RIGHT_UPPER_LEG: mmath.NewVec3(-0.1, -0.05, 0),
	model.LEFT_LOWER_LEG:  mmath.NewVec3(0, -0.45, 0),
	model.RIGHT_LOWER_LEG: mmath.NewVec3(0, -0.45, 0),
	model.LEFT_FOOT:       mmath.NewVec3(0, -0.45, 0),
	model.RIGHT_FOOT:      mmath.NewVec3(0, -0.45, 0),
	model.LEFT_TOES:       mmath.NewVec3(0, -0.05, 0.1),
	model.RIGHT_TOES:      mmath.NewVec3(0, -0.05, 0.1),
}

// buildHumanoidSkeleton はレスト姿勢記録済みのテスト用ヒューマノイドを生成する。
// excludeに指定した関節は割り当てない。
func buildHumanoidSkeleton(t *testing.T, exclude ...model.JointId) *model.Skeleton {
	t.Helper()

	excluded := make(map[model.JointId]struct{}, len(exclude))
	for _, joint := range exclude {
		excluded[joint] = struct{}{}
	}

	skeleton := model.NewSkeleton()
	if err := skeleton.BindRoot(model.HIPS, humanoidLocalOffsets[model.HIPS], mmath.QuaternionIdent()); err != nil {
		t.Fatalf("bind root failed: %v", err)
	}
	for id := model.JointId(1); id < model.JOINT_ID_COUNT; id++ {
		if _, skip := excluded[id]; skip {
			continue
		}
		parent, ok := model.StandardParent(id)
		if !ok {
			t.Fatalf("standard parent missing: joint=%s", id)
		}
		// 除外された親の子はその先祖へ繋ぎ直す
		for {
			if _, parentSkipped := excluded[parent]; !parentSkipped {
				break
			}
			ancestor, ancestorOk := model.StandardParent(parent)
			if !ancestorOk {
				t.Fatalf("ancestor missing: joint=%s", parent)
			}
			parent = ancestor
		}
		if err := skeleton.BindChild(id, parent, humanoidLocalOffsets[id], mmath.QuaternionIdent()); err != nil {
			t.Fatalf("bind child failed: joint=%s err=%v", id, err)
		}
	}
	skeleton.UpdateWorldTransforms()
	skeleton.CaptureRestPose()
	return skeleton
}

// stubPoseSource はテスト用のトラッキング供給元を表す。
type stubPoseSource struct {
	bones []model.TrackedBone
}

func (s *stubPoseSource) PullTrackedBones() []model.TrackedBone {
	return s.bones
}

// recordingProcessor は呼び出し順を記録する姿勢加工コールバックを表す。
type recordingProcessor struct {
	name string
	log  *[]string
}

func (p *recordingProcessor) ProcessPose(tracked *model.Skeleton) {
	*p.log = append(*p.log, p.name)
}

// capturePose は全関節のワールド姿勢を退避する。
func capturePose(skeleton *model.Skeleton) [model.JOINT_ID_COUNT]model.Transform {
	var pose [model.JOINT_ID_COUNT]model.Transform
	for id := model.JointId(0); id < model.JOINT_ID_COUNT; id++ {
		if joint, ok := skeleton.Joint(id); ok {
			pose[id] = model.Transform{
				Position: joint.WorldPosition(),
				Rotation: joint.WorldRotation(),
			}
		}
	}
	return pose
}

// mustCorrectionMap は補正マップを構築する。
func mustCorrectionMap(t *testing.T, tracked, target *model.Skeleton) *CorrectionMap {
	t.Helper()
	correctionMap, err := NewCorrectionMap(tracked, target)
	if err != nil {
		t.Fatalf("correction map build failed: %v", err)
	}
	return correctionMap
}

// mustRetargetUsecase はリターゲット補正レイヤーを構築する。
func mustRetargetUsecase(t *testing.T, source TrackedPoseSource, tracked, target *model.Skeleton) *RetargetUsecase {
	t.Helper()
	usecase, err := NewRetargetUsecase(source, tracked, target, mustCorrectionMap(t, tracked, target))
	if err != nil {
		t.Fatalf("retarget usecase build failed: %v", err)
	}
	return usecase
}

// mustDeformUsecase は全身変形パスを構築する。
func mustDeformUsecase(t *testing.T, tracked, target *model.Skeleton, config DeformConfig) *BodyDeformUsecase {
	t.Helper()
	params, err := NewDeformParams(target)
	if err != nil {
		t.Fatalf("deform params build failed: %v", err)
	}
	usecase, err := NewBodyDeformUsecase(tracked, target, params, config)
	if err != nil {
		t.Fatalf("deform usecase build failed: %v", err)
	}
	return usecase
}
