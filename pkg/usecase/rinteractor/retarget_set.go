// 指示: miu200521358
package rinteractor

import "fmt"

// RetargetSet は1体分のリターゲット・変形パイプラインの組を表す。
// バッファはすべてこのインスタンスが専有し、複数セットは外部のスケジューラーで
// 並列処理できる。セット内部は毎フレーム同期的に2段階で実行する。
type RetargetSet struct {
	Index    int
	Retarget *RetargetUsecase
	Deform   *BodyDeformUsecase
	Weight   float64
}

// NewRetargetSet はパイプラインの組を生成する。
func NewRetargetSet(index int, retarget *RetargetUsecase, deform *BodyDeformUsecase, weight float64) (*RetargetSet, error) {
	if retarget == nil || deform == nil {
		return nil, fmt.Errorf("パイプラインが未設定です: index=%d", index)
	}
	return &RetargetSet{
		Index:    index,
		Retarget: retarget,
		Deform:   deform,
		Weight:   weight,
	}, nil
}

// ProcessFrame は1フレーム分を固定順で実行する。
// 前半: トラッキング反映と加工チェーン。後半: 位置補正、外部拘束、全身変形パス。
func (s *RetargetSet) ProcessFrame() {
	s.Retarget.UpdateFrame()
	s.Retarget.CorrectPositions(s.Weight)
	s.Retarget.ApplyJointConstraints()
	s.Deform.Deform(s.Weight)
}
