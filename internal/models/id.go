package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID 不透明标识，远端接口可能返回字符串或整数
type ID string

// UnmarshalJSON 兼容字符串与数字两种形式
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(b), err)
	}
	*id = ID(n.String())
	return nil
}

// String 返回字符串形式
func (id ID) String() string {
	return string(id)
}

// IsZero 是否为空
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}
