package model

// Searchable 声明哪些实体参与全文索引镜像。实现方决定哪些字段可检索，
// 索引键为 (kind, ref)。
type Searchable interface {
	SearchKind() string
	SearchRef() uint64
	SearchFields() map[string]string
}

var _ Searchable = (*Post)(nil)
