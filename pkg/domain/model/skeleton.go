// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
)

// Joint はスケルトン内の1関節を表す。
type Joint struct {
	id            JointId
	parent        JointId
	hasParent     bool
	LocalPosition mmath.Vec3
	LocalRotation mmath.Quaternion
	worldPosition mmath.Vec3
	worldRotation mmath.Quaternion
}

// Id は関節識別子を返す。
func (j *Joint) Id() JointId {
	return j.id
}

// Parent は親関節識別子を返す。ルート関節はfalseを返す。
func (j *Joint) Parent() (JointId, bool) {
	return j.parent, j.hasParent
}

// WorldPosition はワールド位置を返す。
func (j *Joint) WorldPosition() mmath.Vec3 {
	return j.worldPosition
}

// WorldRotation はワールド回転を返す。
func (j *Joint) WorldRotation() mmath.Quaternion {
	return j.worldRotation
}

// Skeleton は固定スロット数の関節階層を表す。
// 1インスタンスごとに全バッファを専有し、生成時に確保した配列をフレーム中に再確保しない。
type Skeleton struct {
	joints       [JOINT_ID_COUNT]*Joint
	restLocalPos [JOINT_ID_COUNT]mmath.Vec3
	restLocalRot [JOINT_ID_COUNT]mmath.Quaternion
	restWorldPos [JOINT_ID_COUNT]mmath.Vec3
	restWorldRot [JOINT_ID_COUNT]mmath.Quaternion
	restCaptured bool
	currentScale mmath.Vec3
	restScale    mmath.Vec3
}

// NewSkeleton は空のSkeletonを生成する。
func NewSkeleton() *Skeleton {
	return &Skeleton{
		currentScale: mmath.OneVec3(),
		restScale:    mmath.OneVec3(),
	}
}

// BindRoot はルート関節を割り当てる。
func (s *Skeleton) BindRoot(id JointId, localPosition mmath.Vec3, localRotation mmath.Quaternion) error {
	if !id.IsValid() {
		return fmt.Errorf("関節識別子が不正です: %d", int(id))
	}
	s.joints[id] = &Joint{
		id:            id,
		LocalPosition: localPosition,
		LocalRotation: localRotation,
	}
	return nil
}

// BindChild は親付き関節を割り当てる。親は先に割り当て済みで、識別子は子より小さい必要がある。
func (s *Skeleton) BindChild(id JointId, parent JointId, localPosition mmath.Vec3, localRotation mmath.Quaternion) error {
	if !id.IsValid() {
		return fmt.Errorf("関節識別子が不正です: %d", int(id))
	}
	if !parent.IsValid() || parent >= id {
		return fmt.Errorf("親関節識別子が不正です: joint=%s parent=%d", id, int(parent))
	}
	if s.joints[parent] == nil {
		return fmt.Errorf("親関節が未割り当てです: joint=%s parent=%s", id, parent)
	}
	s.joints[id] = &Joint{
		id:            id,
		parent:        parent,
		hasParent:     true,
		LocalPosition: localPosition,
		LocalRotation: localRotation,
	}
	return nil
}

// Joint は関節を返す。未割り当ての場合はfalseを返す。
func (s *Skeleton) Joint(id JointId) (*Joint, bool) {
	if !id.IsValid() || s.joints[id] == nil {
		return nil, false
	}
	return s.joints[id], true
}

// Contains は関節が割り当て済みか判定する。
func (s *Skeleton) Contains(id JointId) bool {
	return id.IsValid() && s.joints[id] != nil
}

// JointCount は割り当て済み関節数を返す。
func (s *Skeleton) JointCount() int {
	count := 0
	for _, joint := range s.joints {
		if joint != nil {
			count++
		}
	}
	return count
}

// PresenceBits は割り当て済み関節のビット集合を返す。
func (s *Skeleton) PresenceBits() uint32 {
	bits := uint32(0)
	for id, joint := range s.joints {
		if joint != nil {
			bits |= 1 << uint(id)
		}
	}
	return bits
}

// UpdateWorldTransforms はローカル姿勢からワールド姿勢を前方計算する。
func (s *Skeleton) UpdateWorldTransforms() {
	for id := JointId(0); id < JOINT_ID_COUNT; id++ {
		joint := s.joints[id]
		if joint == nil {
			continue
		}
		if !joint.hasParent {
			joint.worldPosition = joint.LocalPosition
			joint.worldRotation = joint.LocalRotation
			continue
		}
		parent := s.joints[joint.parent]
		joint.worldPosition = parent.worldPosition.Added(
			parent.worldRotation.MulVec3(joint.LocalPosition))
		joint.worldRotation = parent.worldRotation.Muled(joint.LocalRotation)
	}
}

// SetJointWorldPosition はワールド位置を設定し、ローカル位置を親基準で同期する。
func (s *Skeleton) SetJointWorldPosition(id JointId, position mmath.Vec3) {
	joint, ok := s.Joint(id)
	if !ok {
		return
	}
	joint.worldPosition = position
	if !joint.hasParent {
		joint.LocalPosition = position
		return
	}
	parent := s.joints[joint.parent]
	joint.LocalPosition = parent.worldRotation.Inverted().MulVec3(
		position.Subed(parent.worldPosition))
}

// SetJointWorldRotation はワールド回転を設定し、ローカル回転を親基準で同期する。
func (s *Skeleton) SetJointWorldRotation(id JointId, rotation mmath.Quaternion) {
	joint, ok := s.Joint(id)
	if !ok {
		return
	}
	joint.worldRotation = rotation
	if !joint.hasParent {
		joint.LocalRotation = rotation
		return
	}
	parent := s.joints[joint.parent]
	joint.LocalRotation = parent.worldRotation.Inverted().Muled(rotation)
}

// SetJointLocalPosition はローカル位置を設定し、ワールド位置を親基準で同期する。
func (s *Skeleton) SetJointLocalPosition(id JointId, position mmath.Vec3) {
	joint, ok := s.Joint(id)
	if !ok {
		return
	}
	joint.LocalPosition = position
	if !joint.hasParent {
		joint.worldPosition = position
		return
	}
	parent := s.joints[joint.parent]
	joint.worldPosition = parent.worldPosition.Added(parent.worldRotation.MulVec3(position))
}

// SetJointLocalRotation はローカル回転を設定し、ワールド回転を親基準で同期する。
func (s *Skeleton) SetJointLocalRotation(id JointId, rotation mmath.Quaternion) {
	joint, ok := s.Joint(id)
	if !ok {
		return
	}
	joint.LocalRotation = rotation
	if !joint.hasParent {
		joint.worldRotation = rotation
		return
	}
	parent := s.joints[joint.parent]
	joint.worldRotation = parent.worldRotation.Muled(rotation)
}

// CaptureRestPose は現在の姿勢をレスト姿勢として記録する。
func (s *Skeleton) CaptureRestPose() {
	for id := JointId(0); id < JOINT_ID_COUNT; id++ {
		joint := s.joints[id]
		if joint == nil {
			continue
		}
		s.restLocalPos[id] = joint.LocalPosition
		s.restLocalRot[id] = joint.LocalRotation
		s.restWorldPos[id] = joint.worldPosition
		s.restWorldRot[id] = joint.worldRotation
	}
	s.restCaptured = true
}

// HasRestPose はレスト姿勢が記録済みか判定する。
func (s *Skeleton) HasRestPose() bool {
	return s.restCaptured
}

// RestLocalPosition はレスト姿勢のローカル位置を返す。
func (s *Skeleton) RestLocalPosition(id JointId) mmath.Vec3 {
	return s.restLocalPos[id]
}

// RestLocalRotation はレスト姿勢のローカル回転を返す。
func (s *Skeleton) RestLocalRotation(id JointId) mmath.Quaternion {
	return s.restLocalRot[id]
}

// RestWorldPosition はレスト姿勢のワールド位置を返す。
func (s *Skeleton) RestWorldPosition(id JointId) mmath.Vec3 {
	return s.restWorldPos[id]
}

// RestWorldRotation はレスト姿勢のワールド回転を返す。
func (s *Skeleton) RestWorldRotation(id JointId) mmath.Quaternion {
	return s.restWorldRot[id]
}

// SetCurrentScale は現在のルートスケールを設定する。
func (s *Skeleton) SetCurrentScale(scale mmath.Vec3) {
	s.currentScale = scale
}

// CurrentScale は現在のルートスケールを返す。
func (s *Skeleton) CurrentScale() mmath.Vec3 {
	return s.currentScale
}

// SetRestScale はレスト姿勢のルートスケールを設定する。
func (s *Skeleton) SetRestScale(scale mmath.Vec3) {
	s.restScale = scale
}

// RestScale はレスト姿勢のルートスケールを返す。
func (s *Skeleton) RestScale() mmath.Vec3 {
	return s.restScale
}

// ApplyTrackedBones はトラッキング入力のワールド姿勢を割り当て済み関節へ反映する。
func (s *Skeleton) ApplyTrackedBones(bones []TrackedBone) {
	for _, bone := range bones {
		joint, ok := s.Joint(bone.Id)
		if !ok {
			continue
		}
		joint.worldPosition = bone.Transform.Position
		joint.worldRotation = bone.Transform.Rotation
	}
}
