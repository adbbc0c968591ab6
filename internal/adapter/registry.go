package adapter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"EbaySync/internal/config"
	"EbaySync/internal/interfaces"
	"EbaySync/internal/model"
)

// Factory 适配器工厂函数签名
// 入参：全局配置、共享令牌源、日志实例
// 出参：实现SourceAdapter接口的适配器实例
type Factory func(cfg *config.Config, tokens *TokenSource, logger *logrus.Logger) interfaces.SourceAdapter

// ========== 全局工厂函数注册表 ==========
var factoryRegistry = make(map[model.SourceType]Factory)

// Register 供各适配器init函数调用，注册工厂函数
func Register(source model.SourceType, factory Factory) {
	if factory == nil {
		panic(fmt.Sprintf("接口%s的工厂函数不能为nil", source))
	}
	if _, exists := factoryRegistry[source]; exists {
		logrus.Warnf("接口%s的适配器已注册，将覆盖原有实现", source)
	}
	factoryRegistry[source] = factory
}

// ListFactories 列出所有已注册的接口类型
func ListFactories() []model.SourceType {
	sources := make([]model.SourceType, 0, len(factoryRegistry))
	for s := range factoryRegistry {
		sources = append(sources, s)
	}
	return sources
}

// SourceRegistry 接口适配器构建器。适配器实例每次运行重新构建
// （运行之间不共享可变状态），令牌源全程共享复用缓存的access token
type SourceRegistry struct {
	cfg    *config.Config
	logger *logrus.Logger
	tokens *TokenSource
}

// NewSourceRegistry 构建注册表与共享令牌源
func NewSourceRegistry(cfg *config.Config, logger *logrus.Logger) *SourceRegistry {
	return &SourceRegistry{
		cfg:    cfg,
		logger: logger,
		tokens: NewTokenSource(cfg, logger),
	}
}

// Build 为一次运行构建指定接口的新适配器实例
func (r *SourceRegistry) Build(source model.SourceType) (interfaces.SourceAdapter, error) {
	factory, ok := factoryRegistry[source]
	if !ok {
		return nil, fmt.Errorf("接口%s未注册适配器工厂（init未执行？）", source)
	}
	ins := factory(r.cfg, r.tokens, r.logger)
	if ins == nil {
		return nil, fmt.Errorf("接口%s的工厂函数返回nil实例", source)
	}
	if ins.GetSource() != source {
		return nil, fmt.Errorf("适配器接口类型不匹配: 期望%s实际%s", source, ins.GetSource())
	}
	return ins, nil
}
