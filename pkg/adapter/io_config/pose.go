// 指示: miu200521358
package io_config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

// poseFile はトラッキング姿勢列YAMLのファイル表現を表す。
type poseFile struct {
	Frames []poseFrameEntry `yaml:"frames" validate:"min=1,dive"`
}

// poseFrameEntry は1フレーム分のトラッキング入力を表す。
type poseFrameEntry struct {
	Bones []poseBoneEntry `yaml:"bones" validate:"dive"`
}

// poseBoneEntry は1関節分のトラッキング姿勢を表す。
type poseBoneEntry struct {
	Joint           string     `yaml:"joint" validate:"required"`
	Position        [3]float64 `yaml:"position"`
	RotationDegrees [3]float64 `yaml:"rotation_degrees"`
}

// outputFile は補正済み姿勢列のファイル表現を表す。
type outputFile struct {
	Frames []outputFrameEntry `yaml:"frames"`
}

// outputFrameEntry は補正済み1フレーム分の姿勢を表す。
type outputFrameEntry struct {
	Bones []outputBoneEntry `yaml:"bones"`
}

// outputBoneEntry は補正済み1関節分のワールド姿勢を表す。
// 回転はクォータニオン成分(x, y, z, w)で書き出す。
type outputBoneEntry struct {
	Joint    string     `yaml:"joint"`
	Position [3]float64 `yaml:"position"`
	Rotation [4]float64 `yaml:"rotation"`
}

// PoseRepository はトラッキング姿勢列YAMLの入出力契約を表す。
type PoseRepository struct{}

// NewPoseRepository はPoseRepositoryを生成する。
func NewPoseRepository() *PoseRepository {
	return &PoseRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *PoseRepository) CanLoad(path string) bool {
	return canLoadYaml(path)
}

// InferName はパスから表示名を推定する。
func (r *PoseRepository) InferName(path string) string {
	return inferName(path)
}

// Load はトラッキング姿勢列を読み込み、フレームごとの関節姿勢へ変換する。
func (r *PoseRepository) Load(path string) ([][]model.TrackedBone, error) {
	file := poseFile{}
	if err := loadYamlFile(path, &file); err != nil {
		return nil, err
	}

	frames := make([][]model.TrackedBone, 0, len(file.Frames))
	for frameIndex, frame := range file.Frames {
		bones := make([]model.TrackedBone, 0, len(frame.Bones))
		for _, bone := range frame.Bones {
			joint, ok := model.JointIdByName(bone.Joint)
			if !ok {
				return nil, fmt.Errorf("関節名が不正です: frame=%d joint=%s", frameIndex, bone.Joint)
			}
			bones = append(bones, model.TrackedBone{
				Id: joint,
				Transform: model.Transform{
					Position: mmath.NewVec3(bone.Position[0], bone.Position[1], bone.Position[2]),
					Rotation: mmath.NewQuaternionFromDegrees(
						bone.RotationDegrees[0], bone.RotationDegrees[1], bone.RotationDegrees[2]),
				},
			})
		}
		frames = append(frames, bones)
	}
	return frames, nil
}

// Save は補正済み姿勢列をYAMLへ書き出す。
func (r *PoseRepository) Save(path string, frames [][]model.TrackedBone) error {
	file := outputFile{Frames: make([]outputFrameEntry, 0, len(frames))}
	for _, bones := range frames {
		frame := outputFrameEntry{}
		for _, bone := range bones {
			position := bone.Transform.Position
			rotation := bone.Transform.Rotation
			frame.Bones = append(frame.Bones, outputBoneEntry{
				Joint:    bone.Id.String(),
				Position: [3]float64{position.X, position.Y, position.Z},
				Rotation: [4]float64{rotation.X(), rotation.Y(), rotation.Z(), rotation.W},
			})
		}
		file.Frames = append(file.Frames, frame)
	}

	b, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("YAMLの書き出しに失敗しました: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("ファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}
