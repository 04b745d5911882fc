// 指示: miu200521358
package io_config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/miu200521358/mu_retarget/pkg/shared/base/logging"
)

// configValidator は全リポジトリで共有する構造体検証器を保持する。
var configValidator = validator.New()

// canLoadYaml は拡張子に応じて読み込み可否を判定する。
func canLoadYaml(path string) bool {
	ext := filepath.Ext(path)
	return strings.EqualFold(ext, ".yaml") || strings.EqualFold(ext, ".yml")
}

// inferName はパスから表示名を推定する。
func inferName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// loadYamlFile はYAMLファイルを読み込んで構造体へ展開し、検証する。
func loadYamlFile(path string, out any) error {
	if !canLoadYaml(path) {
		return fmt.Errorf("入力形式が未対応です: %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("ファイルが存在しません: %s", path)
		}
		return fmt.Errorf("ファイルの読み取りに失敗しました: %w", err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("YAMLの解析に失敗しました: %w", err)
	}
	if err := configValidator.Struct(out); err != nil {
		return fmt.Errorf("設定値の検証に失敗しました: %w", err)
	}
	logging.DefaultLogger().Verbose(logging.VERBOSE_INDEX_CONFIG,
		"YAML読込完了: file=%s bytes=%d", filepath.Base(path), len(b))
	return nil
}
