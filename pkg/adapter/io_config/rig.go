// 指示: miu200521358
package io_config

import (
	"fmt"

	"github.com/miu200521358/mu_retarget/pkg/domain/mmath"
	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

// rigFile はリグ記述YAMLのファイル表現を表す。
// 関節は親が先に現れる順で列挙する。
type rigFile struct {
	Scale  *[3]float64     `yaml:"scale"`
	Joints []rigJointEntry `yaml:"joints" validate:"min=1,dive"`
}

// rigJointEntry はリグ記述の1関節を表す。
type rigJointEntry struct {
	Name            string     `yaml:"name" validate:"required"`
	Parent          string     `yaml:"parent"`
	Position        [3]float64 `yaml:"position"`
	RotationDegrees [3]float64 `yaml:"rotation_degrees"`
}

// RigRepository はリグ記述YAMLの読み込み契約を表す。
type RigRepository struct{}

// NewRigRepository はRigRepositoryを生成する。
func NewRigRepository() *RigRepository {
	return &RigRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *RigRepository) CanLoad(path string) bool {
	return canLoadYaml(path)
}

// InferName はパスから表示名を推定する。
func (r *RigRepository) InferName(path string) string {
	return inferName(path)
}

// Load はリグ記述を読み込み、レスト姿勢記録済みのスケルトンを構築する。
func (r *RigRepository) Load(path string) (*model.Skeleton, error) {
	file := rigFile{}
	if err := loadYamlFile(path, &file); err != nil {
		return nil, err
	}
	return buildSkeleton(&file)
}

// buildSkeleton はファイル表現からスケルトンを構築する。
func buildSkeleton(file *rigFile) (*model.Skeleton, error) {
	skeleton := model.NewSkeleton()
	rootBound := false

	for _, entry := range file.Joints {
		joint, ok := model.JointIdByName(entry.Name)
		if !ok {
			return nil, fmt.Errorf("関節名が不正です: %s", entry.Name)
		}
		position := mmath.NewVec3(entry.Position[0], entry.Position[1], entry.Position[2])
		rotation := mmath.NewQuaternionFromDegrees(
			entry.RotationDegrees[0], entry.RotationDegrees[1], entry.RotationDegrees[2])

		if entry.Parent == "" {
			if rootBound {
				return nil, fmt.Errorf("ルート関節が複数存在します: %s", entry.Name)
			}
			if err := skeleton.BindRoot(joint, position, rotation); err != nil {
				return nil, err
			}
			rootBound = true
			continue
		}

		parent, parentOk := model.JointIdByName(entry.Parent)
		if !parentOk {
			return nil, fmt.Errorf("親関節名が不正です: joint=%s parent=%s", entry.Name, entry.Parent)
		}
		if err := skeleton.BindChild(joint, parent, position, rotation); err != nil {
			return nil, err
		}
	}
	if !rootBound {
		return nil, fmt.Errorf("ルート関節が存在しません")
	}

	if file.Scale != nil {
		scale := mmath.NewVec3(file.Scale[0], file.Scale[1], file.Scale[2])
		skeleton.SetCurrentScale(scale)
		skeleton.SetRestScale(scale)
	}
	skeleton.UpdateWorldTransforms()
	skeleton.CaptureRestPose()
	return skeleton, nil
}
