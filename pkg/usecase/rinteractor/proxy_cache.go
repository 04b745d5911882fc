// 指示: miu200521358
package rinteractor

import (
	"github.com/google/uuid"

	"github.com/miu200521358/mu_retarget/pkg/domain/model"
)

// ProxyTransform はトラッキング元関節を追従する安定した間接参照を表す。
// 下流はIdで束縛を保持でき、元関節が再確保されても束縛し直す必要がない。
type ProxyTransform struct {
	Id        uuid.UUID
	Joint     model.JointId
	Transform model.Transform
}

// ProxyTransformCache はトラッキング元関節ごとのプロキシ参照を保持する。
// 関節集合が構造的に変化したときだけエントリを再生成し、通常フレームでは再利用する。
type ProxyTransformCache struct {
	entries  [model.JOINT_ID_COUNT]*ProxyTransform
	presence uint32
}

// NewProxyTransformCache は空のキャッシュを生成する。
func NewProxyTransformCache() *ProxyTransformCache {
	return &ProxyTransformCache{}
}

// Refresh はトラッキング元の現在姿勢をプロキシへ反映する。
// 関節集合が変化していた場合はエントリを作り直し、trueを返す。
func (c *ProxyTransformCache) Refresh(tracked *model.Skeleton) bool {
	bits := tracked.PresenceBits()
	recreated := bits != c.presence
	if recreated {
		for id := model.JointId(0); id < model.JOINT_ID_COUNT; id++ {
			if !tracked.Contains(id) {
				c.entries[id] = nil
				continue
			}
			c.entries[id] = &ProxyTransform{
				Id:    uuid.New(),
				Joint: id,
			}
		}
		c.presence = bits
	}

	for id := model.JointId(0); id < model.JOINT_ID_COUNT; id++ {
		entry := c.entries[id]
		if entry == nil {
			continue
		}
		joint, ok := tracked.Joint(id)
		if !ok {
			continue
		}
		entry.Transform.Position = joint.WorldPosition()
		entry.Transform.Rotation = joint.WorldRotation()
	}
	return recreated
}

// Proxy は関節のプロキシ参照を返す。未生成の場合はfalseを返す。
func (c *ProxyTransformCache) Proxy(joint model.JointId) (*ProxyTransform, bool) {
	if !joint.IsValid() || c.entries[joint] == nil {
		return nil, false
	}
	return c.entries[joint], true
}
