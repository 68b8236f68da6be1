// Package codec 为高频的消息收发路径提供对象复用。
// 快照广播在移动阶段每秒一次乘以房间人数，池化显著降低 GC 压力。
package codec

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
)

var (
	messagePool = sync.Pool{
		New: func() any {
			return &protocol.Message{}
		},
	}

	bufferPool = sync.Pool{
		New: func() any {
			return new(bytes.Buffer)
		},
	}
)

// Decode 从池中取出 Message 并反序列化。
// 调用方处理完毕后必须调用 PutMessage 归还。
func Decode(data []byte) (*protocol.Message, error) {
	msg := messagePool.Get().(*protocol.Message)
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, err
	}
	return msg, nil
}

// PutMessage 清空字段后归还消息，避免持有过期的 payload 引用
func PutMessage(msg *protocol.Message) {
	if msg == nil {
		return
	}
	msg.Type = ""
	msg.Payload = nil
	messagePool.Put(msg)
}

// GetBuffer 从池中取出写缓冲
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// PutBuffer 重置后归还写缓冲，保留已增长的容量
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
