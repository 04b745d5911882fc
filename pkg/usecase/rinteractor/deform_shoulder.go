// 指示: miu200521358
package rinteractor

import (
	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

// interpolateShoulders は肩のローカル位置をレスト位置へ重み付きで戻す。
// 明示的な肩関節がないリグでは対応する上腕へ同じ補間を適用する。
func (uc *BodyDeformUsecase) interpolateShoulders(weight float64) {
	for side := 0; side < 2; side++ {
		shoulderId := uc.params.ShoulderJoints[side]
		joint, ok := uc.target.Joint(shoulderId)
		if !ok {
			continue
		}
		restLocal := uc.target.RestLocalPosition(shoulderId)
		interpolated := joint.LocalPosition.Lerp(restLocal, uc.config.ShoulderWeights[side]*weight)
		uc.target.SetJointLocalPosition(shoulderId, interpolated)
	}
}

// correctShoulderShape は肩の高さと幅を独立した重みで抑える。
// 高さは親関節の高さへ、幅は背骨軸への射影位置へ寄せる。
func (uc *BodyDeformUsecase) correctShoulderShape(weight float64) {
	hips, hipsOk := uc.target.Joint(model.HIPS)
	head, headOk := uc.target.Joint(model.HEAD)
	if !hipsOk || !headOk {
		return
	}
	axisOrigin := hips.WorldPosition()
	axisDirection := head.WorldPosition().Subed(axisOrigin).Normalized()

	for side := 0; side < 2; side++ {
		shoulderId := uc.params.ShoulderJoints[side]
		shoulder, ok := uc.target.Joint(shoulderId)
		if !ok {
			continue
		}
		position := shoulder.WorldPosition()

		heightTarget := position.Y
		if uc.params.HasShoulderParent[side] {
			if parent, parentOk := uc.target.Joint(uc.params.ShoulderParents[side]); parentOk {
				heightTarget = parent.WorldPosition().Y
			}
		}
		correctedY := mmath.Lerp(position.Y, heightTarget, uc.config.ShoulderHeightReduction*weight)

		projected := axisOrigin.Added(
			axisDirection.MuledScalar(position.Subed(axisOrigin).Dot(axisDirection)))
		lateral := position.Subed(projected)
		corrected := position.Subed(lateral.MuledScalar(uc.config.ShoulderWidthReduction * weight))
		corrected.Y = correctedY

		uc.target.SetJointWorldPosition(shoulderId, corrected)
	}
}
