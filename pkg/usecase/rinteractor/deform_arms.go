// 指示: miu200521358
package rinteractor

import "github.com/miu200521358/mu_retarget/pkg/domain/model"

// interpolateArms は上腕・前腕の位置をフレーム開始時から変形後へ腕ごとの重みで補間する。
// 重み0で開始時位置へ戻り、重み1で変形結果をそのまま採用する。
func (uc *BodyDeformUsecase) interpolateArms(weight float64) {
	for side := 0; side < 2; side++ {
		for _, jointId := range []model.JointId{
			model.UPPER_ARM.Both()[side], model.LOWER_ARM.Both()[side],
		} {
			uc.interpolateFromStartPose(jointId, uc.config.ArmWeights[side]*weight)
		}
	}
}

// interpolateHands は手の位置を同様に手ごとの重みで補間する。
func (uc *BodyDeformUsecase) interpolateHands(weight float64) {
	for side := 0; side < 2; side++ {
		uc.interpolateFromStartPose(model.HAND.Both()[side], uc.config.HandWeights[side]*weight)
	}
}

// interpolateFromStartPose は退避済みの開始時位置から現在位置への補間を書き込む。
func (uc *BodyDeformUsecase) interpolateFromStartPose(jointId model.JointId, t float64) {
	joint, ok := uc.target.Joint(jointId)
	if !ok {
		return
	}
	start := uc.startPose[jointId].Position
	uc.target.SetJointWorldPosition(jointId, start.Lerp(joint.WorldPosition(), t))
}
