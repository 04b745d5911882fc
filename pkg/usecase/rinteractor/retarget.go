// 指示: miu200521358
package rinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
	"github.com/miu200521358/mu_retarget/pkg/shared/base/logging"
)

// positionCorrectionEpsilon は位置補正を見送る2乗距離のしきい値を表す。
// 誤差とオフセットの双方がこの値を下回るフレームでは書き込みを行わない。
const positionCorrectionEpsilon = 1e-10

// PoseProcessor はトラッキング姿勢をその場で加工する登録済みコールバックを表す。
type PoseProcessor interface {
	ProcessPose(tracked *model.Skeleton)
}

// JointConstraint は位置補正後に適用する外部拘束を表す。
type JointConstraint interface {
	ApplyConstraint(target *model.Skeleton)
}

// TrackedPoseSource はトラッキング元関節の最新姿勢を供給する外部協調者を表す。
type TrackedPoseSource interface {
	PullTrackedBones() []model.TrackedBone
}

// CorrectablePoseSink は位置補正を受け付ける対象を表す。
type CorrectablePoseSink interface {
	CorrectPositions(weight float64)
}

// ProcessorAggregator は姿勢加工コールバックの順序付き登録先を表す。
type ProcessorAggregator interface {
	AddProcessor(processor PoseProcessor)
	RemoveProcessor(processor PoseProcessor)
}

// RetargetUsecase はリターゲット補正レイヤーのフレーム処理を担う。
// 登録済みプロセッサーの呼び出し順は登録順で、1フレームに1回のみ呼び出す。
type RetargetUsecase struct {
	source        TrackedPoseSource
	tracked       *model.Skeleton
	target        *model.Skeleton
	correctionMap *CorrectionMap
	table         *AdjustmentTable
	proxyCache    *ProxyTransformCache
	useProxy      bool

	processors  []PoseProcessor
	constraints []JointConstraint

	mask model.BodyPartMask
	// 拘束通過後の位置オフセットを補正先へ加算するか
	applyConstraintOffsets bool
	arrayCapacity          int
	arrays                 *AdjustmentArrays
}

// NewRetargetUsecase はリターゲット補正レイヤーを生成する。
func NewRetargetUsecase(
	source TrackedPoseSource,
	tracked, target *model.Skeleton,
	correctionMap *CorrectionMap,
) (*RetargetUsecase, error) {
	if source == nil {
		return nil, fmt.Errorf("トラッキング供給元が未設定です")
	}
	if tracked == nil || target == nil {
		return nil, fmt.Errorf("スケルトンが未設定です")
	}
	if correctionMap == nil {
		return nil, fmt.Errorf("補正マップが未設定です")
	}
	return &RetargetUsecase{
		source:        source,
		tracked:       tracked,
		target:        target,
		correctionMap: correctionMap,
		table:         NewAdjustmentTable(),
		proxyCache:    NewProxyTransformCache(),
		mask:          model.FullBodyMask(),
		arrayCapacity: -1,
	}, nil
}

// AddProcessor は姿勢加工コールバックを末尾へ登録する。登録済みの場合は無視する。
func (uc *RetargetUsecase) AddProcessor(processor PoseProcessor) {
	if processor == nil {
		return
	}
	for _, registered := range uc.processors {
		if registered == processor {
			return
		}
	}
	uc.processors = append(uc.processors, processor)
}

// RemoveProcessor は姿勢加工コールバックの登録を解除する。
func (uc *RetargetUsecase) RemoveProcessor(processor PoseProcessor) {
	for i, registered := range uc.processors {
		if registered == processor {
			uc.processors = append(uc.processors[:i], uc.processors[i+1:]...)
			return
		}
	}
}

// AddJointConstraint は位置補正後の外部拘束を末尾へ登録する。
func (uc *RetargetUsecase) AddJointConstraint(constraint JointConstraint) {
	if constraint == nil {
		return
	}
	uc.constraints = append(uc.constraints, constraint)
}

// SetBodyPartMask は補正対象の身体区分マスクを設定する。
func (uc *RetargetUsecase) SetBodyPartMask(mask model.BodyPartMask) {
	uc.mask = mask
	uc.table.MarkDirty()
}

// SetUseProxy はプロキシ最適化の有効・無効を設定する。
func (uc *RetargetUsecase) SetUseProxy(enabled bool) {
	uc.useProxy = enabled
}

// SetApplyConstraintOffsets は拘束通過後オフセットの加算可否を設定する。
func (uc *RetargetUsecase) SetApplyConstraintOffsets(enabled bool) {
	uc.applyConstraintOffsets = enabled
}

// SetArrayCapacity は補正入力列の上限を設定する。負値は無制限を表す。
func (uc *RetargetUsecase) SetArrayCapacity(capacity int) {
	uc.arrayCapacity = capacity
	uc.table.MarkDirty()
}

// Table は関節上書きテーブルを返す。
func (uc *RetargetUsecase) Table() *AdjustmentTable {
	return uc.table
}

// ProxyCache はプロキシ参照キャッシュを返す。
func (uc *RetargetUsecase) ProxyCache() *ProxyTransformCache {
	return uc.proxyCache
}

// UpdateFrame はフレーム前半の処理を固定順で実行する。
// 1. トラッキング反映 2. 姿勢加工チェーン 3. 補正入力列の再同期 4. プロキシ更新。
func (uc *RetargetUsecase) UpdateFrame() {
	uc.tracked.ApplyTrackedBones(uc.source.PullTrackedBones())

	for _, processor := range uc.processors {
		processor.ProcessPose(uc.tracked)
	}

	uc.syncAdjustmentArrays()

	if uc.useProxy {
		if uc.proxyCache.Refresh(uc.tracked) {
			logging.DefaultLogger().Verbose(logging.VERBOSE_INDEX_RETARGET,
				"プロキシ参照を再生成しました: joints=%d", uc.tracked.JointCount())
		}
	}
}

// syncAdjustmentArrays は上書き設定の変更を補正入力列へ反映する。
// 未同期または上書き設定が変更された場合のみ再構築する。
func (uc *RetargetUsecase) syncAdjustmentArrays() {
	if uc.arrays != nil && !uc.table.IsDirty() {
		return
	}
	uc.arrays = BuildAdjustmentArrays(
		uc.correctionMap, uc.tracked, uc.target, uc.table, uc.mask, uc.arrayCapacity)
	uc.table.MarkSynced()
	logging.DefaultLogger().Verbose(logging.VERBOSE_INDEX_RETARGET,
		"補正入力列を再同期しました: joints=%d", uc.arrays.Len())
}

// CorrectPositions は先リグの関節位置をトラッキング位置へ重み付きで寄せる。
// 外部アニメーション拘束の実行後、フレーム後半に呼び出す。
// 対象関節とフラグは同期済みの補正入力列から読む。入力列が上限で切り詰められた
// フレームでは、列外の関節は補正されずそのまま残る。
// スキップ条件はすべて高頻度の正常系であり、黙って次の関節へ進む。
func (uc *RetargetUsecase) CorrectPositions(weight float64) {
	uc.syncAdjustmentArrays()
	for i, id := range uc.arrays.Joints {
		if !uc.arrays.UpdatePositions[i] {
			continue
		}
		trackedJoint, trackedOk := uc.tracked.Joint(id)
		targetJoint, targetOk := uc.target.Joint(id)
		if !trackedOk || !targetOk {
			continue
		}
		trackedPosition := trackedJoint.WorldPosition()
		if !trackedPosition.IsFinite() {
			continue
		}

		offset := mmath.ZeroVec3()
		if uc.applyConstraintOffsets {
			offset = uc.table.PositionOffset(id)
		}
		currentPosition := targetJoint.WorldPosition()
		errorSqr := currentPosition.Subed(trackedPosition).LengthSqr()
		if errorSqr < positionCorrectionEpsilon && offset.LengthSqr() < positionCorrectionEpsilon {
			continue
		}

		corrected := currentPosition.Lerp(trackedPosition.Added(offset), weight)
		uc.target.SetJointWorldPosition(id, corrected)
	}
}

// ApplyJointConstraints は登録済み拘束を登録順で逐次適用する。
func (uc *RetargetUsecase) ApplyJointConstraints() {
	for _, constraint := range uc.constraints {
		constraint.ApplyConstraint(uc.target)
	}
}

// GetPositionOffset は拘束前後の関節位置オフセットを返す。
func (uc *RetargetUsecase) GetPositionOffset(joint model.JointId) mmath.Vec3 {
	return uc.table.PositionOffset(joint)
}

// GetNumberOfCorrectableJoints は補正対象の関節数を返す。
func (uc *RetargetUsecase) GetNumberOfCorrectableJoints() int {
	return uc.correctionMap.CorrectableJointCount()
}

// AdjustmentArrays は同期済みの補正入力列を返す。未同期の場合はfalseを返す。
func (uc *RetargetUsecase) AdjustmentArrays() (*AdjustmentArrays, bool) {
	if uc.arrays == nil {
		return nil, false
	}
	return uc.arrays, true
}
