package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNode_Markdown(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "empty",
			node: Node{},
			want: "",
		},
		{
			name: "text only",
			node: Node{Text: "正文"},
			want: "正文",
		},
		{
			name: "title and children",
			node: Node{
				Title: "时间线",
				Children: []Node{
					{Title: "1947", Text: "晶体管发明"},
					{Text: "第二行\n续行"},
					{Title: "同名", Text: "同名"},
				},
			},
			want: "### 时间线\n\n- **1947**: 晶体管发明\n- 第二行 续行\n- 同名",
		},
		{
			name: "nested children",
			node: Node{
				Children: []Node{
					{Text: "a", Children: []Node{{Text: "b"}}},
				},
			},
			want: "- a\n  - b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.Markdown())
		})
	}
}
