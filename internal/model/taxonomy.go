package model

// TaxonomyTreeRef get_default_category_tree_id 响应
type TaxonomyTreeRef struct {
	CategoryTreeID      string `json:"categoryTreeId"`
	CategoryTreeVersion string `json:"categoryTreeVersion"`
}

// TaxonomySubtreeResponse get_category_subtree 响应
type TaxonomySubtreeResponse struct {
	CategoryTreeID string       `json:"categoryTreeId"`
	Node           TaxonomyNode `json:"categorySubtreeNode"`
}

// TaxonomyNode 类目树节点（递归结构）
type TaxonomyNode struct {
	Category       TaxonomyCategory `json:"category"`
	Level          int              `json:"categoryTreeNodeLevel"`
	LeafCategory   bool             `json:"leafCategoryTreeNode"`
	ChildNodes     []TaxonomyNode   `json:"childCategoryTreeNodes"`
	ParentCategory string           `json:"-"` // 展平时回填，上游不直接下发
}

// TaxonomyCategory 类目基本信息
type TaxonomyCategory struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// TaxonomyAspectsResponse get_item_aspects_for_category 响应
type TaxonomyAspectsResponse struct {
	Aspects []TaxonomyAspect `json:"aspects"`
}

// TaxonomyAspect 类目下可用的商品属性定义
type TaxonomyAspect struct {
	LocalizedAspectName string                   `json:"localizedAspectName"`
	AspectConstraint    TaxonomyAspectConstraint `json:"aspectConstraint"`
}

// TaxonomyAspectConstraint 属性约束
type TaxonomyAspectConstraint struct {
	AspectRequired bool   `json:"aspectRequired"`
	AspectUsage    string `json:"aspectUsage"`
}

// TaxonomyCategoryRecord 展平后的类目记录（适配器产出，Aspects来自种子类目的属性定义）
type TaxonomyCategoryRecord struct {
	CategoryID       string   // 类目ID
	CategoryName     string   // 类目名称
	ParentCategoryID string   // 父类目ID（根节点为空）
	Level            int      // 树深度（根为0）
	Aspects          []string // 该子树适用的属性名列表
}

// FlattenTaxonomyTree 先序展平子树并回填父类目ID，aspects附到每条记录上
func FlattenTaxonomyTree(root TaxonomyNode, parentID string, aspects []string) []TaxonomyCategoryRecord {
	records := make([]TaxonomyCategoryRecord, 0, 1+len(root.ChildNodes))
	records = append(records, TaxonomyCategoryRecord{
		CategoryID:       root.Category.CategoryID,
		CategoryName:     root.Category.CategoryName,
		ParentCategoryID: parentID,
		Level:            root.Level,
		Aspects:          aspects,
	})
	for _, child := range root.ChildNodes {
		records = append(records, FlattenTaxonomyTree(child, root.Category.CategoryID, aspects)...)
	}
	return records
}
