// 指示: miu200521358
package rinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

// BonePair は計測対象の1セグメントを表す。
// RestDistanceはレスト姿勢での長さ、比率は構築時に確定し実行時には再計算しない。
type BonePair struct {
	Start            model.JointId
	End              model.JointId
	RestDistance     float64
	HeightProportion float64
	LimbProportion   float64
}

// DeformConfig は変形パスの重みとモードの外部設定を表す。
// 重みは呼び出し側で[0,1]へ収めてから渡す。内部では再クランプしない。
type DeformConfig struct {
	SpineMode               model.SpineCorrectionMode
	SpineAlignmentWeights   [3]float64
	ShoulderWeights         [2]float64
	LegWeights              [2]float64
	ArmWeights              [2]float64
	HandWeights             [2]float64
	ShoulderHeightReduction float64
	ShoulderWidthReduction  float64
	ArmHeightAdjustment     float64
	BoneAdjustments         []model.BoneAdjustmentEntry
}

// NewDeformConfig は補正なしの既定設定を生成する。
func NewDeformConfig() DeformConfig {
	return DeformConfig{SpineMode: model.SPINE_CORRECTION_NONE}
}

// spineChainJoints は背骨チェーンの候補関節を上方向順で保持する。
var spineChainJoints = []model.JointId{
	model.HIPS, model.SPINE, model.CHEST, model.UPPER_CHEST, model.NECK, model.HEAD,
}

// DeformParams は変形パスが毎フレーム消費する静的入力を表す。
// 構築時に全関節を束縛し、indexは名前付きで保持する。以後は不変として扱う。
type DeformParams struct {
	SpineChain []model.JointId
	// SpineChainのindexに整列した、腰から各関節までの高さ比率(腰=0、頭=1)
	SpineHeightProportions []float64
	// 腰基準ではなく地面基準の高さ比率。AccurateHeadの誤差分配に用いる。
	SpineGroundProportions []float64

	SpinePairs []BonePair
	ArmPairs   [2][]BonePair
	LegPairs   [2][]BonePair
	AllPairs   []BonePair

	ShoulderJoints    [2]model.JointId
	ShoulderParents   [2]model.JointId
	HasShoulder       [2]bool
	HasShoulderParent [2]bool
	HasToes           [2]bool
	// 肩セグメント長の片腕全長に対する比率
	ShoulderLimbProportions [2]float64

	TotalHeight float64
}

// NewDeformParams は先リグのレスト姿勢からセグメント指標を構築する。
func NewDeformParams(target *model.Skeleton) (*DeformParams, error) {
	if target == nil {
		return nil, fmt.Errorf("先リグが未設定です")
	}
	if !target.HasRestPose() {
		target.CaptureRestPose()
	}
	for _, joint := range []model.JointId{model.HIPS, model.HEAD} {
		if !target.Contains(joint) {
			return nil, fmt.Errorf("変形パスに必須の関節が存在しません: %s", joint)
		}
	}

	params := &DeformParams{}
	params.buildSpineChain(target)
	params.buildArms(target)
	params.buildLegs(target)

	params.AllPairs = append(params.AllPairs, params.SpinePairs...)
	for side := 0; side < 2; side++ {
		params.AllPairs = append(params.AllPairs, params.ArmPairs[side]...)
	}
	for side := 0; side < 2; side++ {
		params.AllPairs = append(params.AllPairs, params.LegPairs[side]...)
	}
	return params, nil
}

// buildSpineChain は存在する背骨チェーンと高さ比率を構築する。
func (p *DeformParams) buildSpineChain(target *model.Skeleton) {
	for _, joint := range spineChainJoints {
		if target.Contains(joint) {
			p.SpineChain = append(p.SpineChain, joint)
		}
	}

	total := 0.0
	cumulative := make([]float64, len(p.SpineChain))
	for i := 1; i < len(p.SpineChain); i++ {
		start := p.SpineChain[i-1]
		end := p.SpineChain[i]
		distance := target.RestWorldPosition(start).Distance(target.RestWorldPosition(end))
		total += distance
		cumulative[i] = total
	}
	p.TotalHeight = total

	p.SpineHeightProportions = make([]float64, len(p.SpineChain))
	p.SpineGroundProportions = make([]float64, len(p.SpineChain))
	headRestY := target.RestWorldPosition(model.HEAD).Y
	for i, joint := range p.SpineChain {
		if total > 0 {
			p.SpineHeightProportions[i] = cumulative[i] / total
		}
		if headRestY != 0 {
			p.SpineGroundProportions[i] = target.RestWorldPosition(joint).Y / headRestY
		}
	}

	for i := 1; i < len(p.SpineChain); i++ {
		start := p.SpineChain[i-1]
		end := p.SpineChain[i]
		p.SpinePairs = append(p.SpinePairs, BonePair{
			Start:            start,
			End:              end,
			RestDistance:     target.RestWorldPosition(start).Distance(target.RestWorldPosition(end)),
			HeightProportion: p.SpineHeightProportions[i],
			LimbProportion:   p.SpineHeightProportions[i],
		})
	}
}

// buildArms は左右の腕セグメントと肩の束縛を構築する。
func (p *DeformParams) buildArms(target *model.Skeleton) {
	for side, shoulderId := range model.SHOULDER.Both() {
		upperArm := model.UPPER_ARM.Both()[side]
		lowerArm := model.LOWER_ARM.Both()[side]
		hand := model.HAND.Both()[side]

		p.HasShoulder[side] = target.Contains(shoulderId)
		if p.HasShoulder[side] {
			p.ShoulderJoints[side] = shoulderId
		} else {
			// 明示的な肩関節がないリグは上腕を代用する
			p.ShoulderJoints[side] = upperArm
		}
		if shoulder, ok := target.Joint(p.ShoulderJoints[side]); ok {
			if parent, hasParent := shoulder.Parent(); hasParent {
				p.ShoulderParents[side] = parent
				p.HasShoulderParent[side] = true
			}
		}

		chain := make([]model.JointId, 0, 4)
		if p.HasShoulder[side] {
			chain = append(chain, shoulderId)
		}
		for _, joint := range []model.JointId{upperArm, lowerArm, hand} {
			if target.Contains(joint) {
				chain = append(chain, joint)
			}
		}
		p.ArmPairs[side] = buildLimbPairs(target, chain)

		if p.HasShoulder[side] && len(p.ArmPairs[side]) > 0 {
			p.ShoulderLimbProportions[side] = p.ArmPairs[side][0].LimbProportion
		}
	}
}

// buildLegs は左右の脚セグメントを構築する。
func (p *DeformParams) buildLegs(target *model.Skeleton) {
	for side := 0; side < 2; side++ {
		upperLeg := model.UPPER_LEG.Both()[side]
		lowerLeg := model.LOWER_LEG.Both()[side]
		foot := model.FOOT.Both()[side]
		toes := model.TOES.Both()[side]

		p.HasToes[side] = target.Contains(toes)

		chain := make([]model.JointId, 0, 4)
		for _, joint := range []model.JointId{upperLeg, lowerLeg, foot, toes} {
			if target.Contains(joint) {
				chain = append(chain, joint)
			}
		}
		p.LegPairs[side] = buildLimbPairs(target, chain)
	}
}

// buildLimbPairs は連続チェーンからセグメント列を構築する。
// LimbProportionは各セグメントの先頭関節から見た、四肢全長に対する残存長の比率を表す。
func buildLimbPairs(target *model.Skeleton, chain []model.JointId) []BonePair {
	if len(chain) < 2 {
		return nil
	}

	distances := make([]float64, len(chain)-1)
	total := 0.0
	for i := 0; i < len(chain)-1; i++ {
		distances[i] = target.RestWorldPosition(chain[i]).Distance(
			target.RestWorldPosition(chain[i+1]))
		total += distances[i]
	}

	pairs := make([]BonePair, 0, len(chain)-1)
	remaining := total
	for i := 0; i < len(chain)-1; i++ {
		limbProportion := 0.0
		if total > 0 {
			limbProportion = remaining / total
		}
		pairs = append(pairs, BonePair{
			Start:          chain[i],
			End:            chain[i+1],
			RestDistance:   distances[i],
			LimbProportion: limbProportion,
		})
		remaining -= distances[i]
	}
	return pairs
}

// ScaleFactor は現在スケールとレストスケールの成分比を返す。
// レストスケールのいずれかの軸が0の場合は(1,1,1)へフォールバックする。
func ScaleFactor(target *model.Skeleton) mmath.Vec3 {
	return mmath.DivideVec3(target.CurrentScale(), target.RestScale())
}
