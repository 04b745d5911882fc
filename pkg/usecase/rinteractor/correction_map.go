// 指示: miu200521358
package rinteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/logging"
)

// BoneCorrection は1関節分のリターゲット補正情報を表す。
// CorrectionQuaternionがnilの場合、そのリグではトラッキング対応が取れないことを表し、
// 下流は関節を変更せずそのまま残す。
type BoneCorrection struct {
	Joint                model.JointId
	CorrectionQuaternion *mmath.Quaternion
	RestPosition         mmath.Vec3
	RestRotation         mmath.Quaternion
}

// requiredTargetJoints は初期化時に必須となる先リグの関節を保持する。
var requiredTargetJoints = []model.JointId{
	model.HIPS,
	model.SPINE,
	model.HEAD,
	model.UPPER_ARM.Left(), model.UPPER_ARM.Right(),
	model.LOWER_ARM.Left(), model.LOWER_ARM.Right(),
	model.UPPER_LEG.Left(), model.UPPER_LEG.Right(),
	model.LOWER_LEG.Left(), model.LOWER_LEG.Right(),
	model.FOOT.Left(), model.FOOT.Right(),
}

// CorrectionMap はトラッキング元と先リグの対応補正をリグごとに保持する。
// リグ初期化時に一度だけ構築し、以後は不変として扱う。
type CorrectionMap struct {
	corrections [model.JOINT_ID_COUNT]*BoneCorrection
}

// NewCorrectionMap は先リグを検証して補正マップを構築する。
// 必須関節が欠けている場合は致命的な設定エラーを返し、パイプラインを開始してはならない。
func NewCorrectionMap(tracked, target *model.Skeleton) (*CorrectionMap, error) {
	if tracked == nil || target == nil {
		return nil, fmt.Errorf("スケルトンが未設定です")
	}

	missing := make([]string, 0)
	for _, joint := range requiredTargetJoints {
		if !target.Contains(joint) {
			missing = append(missing, joint.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("先リグに必須関節が存在しません: %s", strings.Join(missing, ", "))
	}

	validateShoulderParents(target)

	if !target.HasRestPose() {
		target.CaptureRestPose()
	}
	if !tracked.HasRestPose() {
		tracked.CaptureRestPose()
	}

	correctionMap := &CorrectionMap{}
	for id := model.JointId(0); id < model.JOINT_ID_COUNT; id++ {
		if !target.Contains(id) {
			continue
		}
		correction := &BoneCorrection{
			Joint:        id,
			RestPosition: target.RestLocalPosition(id),
			RestRotation: target.RestLocalRotation(id),
		}
		if tracked.Contains(id) {
			// 先リグのボーン姿勢をトラッキング元の姿勢規約へ合わせる回転
			quaternion := target.RestWorldRotation(id).Inverted().
				Muled(tracked.RestWorldRotation(id)).Normalized()
			correction.CorrectionQuaternion = &quaternion
		}
		correctionMap.corrections[id] = correction
	}
	return correctionMap, nil
}

// validateShoulderParents は肩関節の親が上胸部であるか検査し、違反は警告に留める。
func validateShoulderParents(target *model.Skeleton) {
	for _, shoulderId := range model.SHOULDER.Both() {
		shoulder, ok := target.Joint(shoulderId)
		if !ok {
			continue
		}
		parent, hasParent := shoulder.Parent()
		if hasParent && parent == model.UPPER_CHEST {
			continue
		}
		parentName := "none"
		if hasParent {
			parentName = parent.String()
		}
		logging.DefaultLogger().Warn(
			"肩関節の親が上胸部ではありません: joint=%s parent=%s", shoulderId, parentName)
	}
}

// Correction は関節の補正情報を返す。マップ対象外の場合はfalseを返す。
func (m *CorrectionMap) Correction(joint model.JointId) (*BoneCorrection, bool) {
	if !joint.IsValid() || m.corrections[joint] == nil {
		return nil, false
	}
	return m.corrections[joint], true
}

// CorrectableJointCount は補正クォータニオンを持つ関節数を返す。
func (m *CorrectionMap) CorrectableJointCount() int {
	count := 0
	for _, correction := range m.corrections {
		if correction != nil && correction.CorrectionQuaternion != nil {
			count++
		}
	}
	return count
}
