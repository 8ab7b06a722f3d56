package rules

import (
	"tagwise/internal/textfeat"
)

// DefaultRules is the built-in content-type rule table for short
// Chinese/Latin social posts. Weights were tuned against a labeled
// sample of feed posts; keep MinScore positive or NewRuleSet rejects
// the rule.
func DefaultRules() []LabelRule {
	return []LabelRule{
		{
			Name:     "教程",
			Category: "knowledge",
			Keywords: []Keyword{
				{Text: "教程", Weight: 1.5},
				{Text: "步骤", Weight: 1.2},
				{Text: "入门", Weight: 1.2},
				{Text: "实战", Weight: 1.2},
				{Text: "方法", Weight: 1.0},
				{Text: "学会", Weight: 1.0},
			},
			Patterns: []Pattern{
				{Expr: `第[一二三四五六七八九十\d]+步`, Weight: 1.5, Description: "numbered step"},
				{Expr: `^如何`, Weight: 1.2, Description: "how-to opener"},
				{Expr: `手把手`, Weight: 1.2, Description: "hands-on phrase"},
			},
			Features: FeaturePredicates{MinLength: 20},
			MinScore: 2.0,
		},
		{
			Name:     "新闻/事件",
			Category: "news",
			Keywords: []Keyword{
				{Text: "宣布", Weight: 1.5},
				{Text: "发布", Weight: 1.2},
				{Text: "报道", Weight: 1.5},
				{Text: "消息", Weight: 1.2},
				{Text: "官方", Weight: 1.2},
			},
			Patterns: []Pattern{
				{Expr: `据.{0,6}(报道|消息)`, Weight: 1.5, Description: "reported-by phrase"},
				{Expr: `(今日|昨日|正式)(宣布|发布|上线)`, Weight: 1.5, Description: "announcement phrase"},
			},
			MutuallyExclusive: []string{"个人经历/成长"},
			MinScore:          2.0,
		},
		{
			Name:     "个人经历/成长",
			Category: "personal",
			Keywords: []Keyword{
				{Text: "学习", Weight: 1.2},
				{Text: "学会", Weight: 1.2},
				{Text: "尝试", Weight: 1.2},
				{Text: "体验", Weight: 1.2},
				{Text: "心得", Weight: 1.2},
				{Text: "感悟", Weight: 1.2},
				{Text: "成长", Weight: 1.5},
				{Text: "坚持", Weight: 1.2},
			},
			Patterns: []Pattern{
				{Expr: `^今天`, Weight: 1.0, Description: "diary opener"},
				{Expr: `(我|自己)[^，。]{0,10}(学|做|试|坚持)`, Weight: 1.0, Description: "first-person action"},
				{Expr: `终于`, Weight: 0.8, Description: "achievement marker"},
			},
			MutuallyExclusive: []string{"新闻/事件"},
			MinScore:          1.5,
		},
		{
			Name:     "研究/数据",
			Category: "knowledge",
			Keywords: []Keyword{
				{Text: "数据", Weight: 1.2},
				{Text: "研究", Weight: 1.2},
				{Text: "准确率", Weight: 1.5},
				{Text: "实验", Weight: 1.2},
				{Text: "论文", Weight: 1.5},
				{Text: "算法", Weight: 1.2},
				{Text: "模型", Weight: 1.0},
			},
			Patterns: []Pattern{
				{Expr: `\d+(\.\d+)?[%％]`, Weight: 1.5, Description: "percentage"},
				{Expr: `(提升|提高|下降|增长)了?\d+`, Weight: 1.0, Description: "metric delta"},
				{Expr: `\d+(\.\d+)?倍`, Weight: 1.0, Description: "multiplier"},
			},
			Features: FeaturePredicates{RequiresNumbers: true},
			MinScore: 2.0,
		},
		{
			Name:     "观点/评论",
			Category: "opinion",
			Keywords: []Keyword{
				{Text: "觉得", Weight: 1.2},
				{Text: "认为", Weight: 1.2},
				{Text: "其实", Weight: 1.0},
				{Text: "评论", Weight: 1.2},
			},
			Patterns: []Pattern{
				{Expr: `(我觉得|我认为|依我看|个人观点)`, Weight: 1.5, Description: "opinion opener"},
			},
			MinScore: 1.5,
		},
		{
			Name:     "问答/求助",
			Category: "question",
			Keywords: []Keyword{
				{Text: "请问", Weight: 1.5},
				{Text: "求助", Weight: 1.5},
				{Text: "怎么", Weight: 1.0},
				{Text: "为什么", Weight: 1.2},
				{Text: "有没有", Weight: 1.0},
			},
			Patterns: []Pattern{
				{Expr: `[?？]\s*$`, Weight: 1.0, Description: "trailing question mark"},
			},
			Features: FeaturePredicates{RequiresQuestion: true},
			MinScore: 1.5,
		},
		{
			Name:     "推广/营销",
			Category: "promotion",
			Keywords: []Keyword{
				{Text: "优惠", Weight: 1.5},
				{Text: "折扣", Weight: 1.5},
				{Text: "限时", Weight: 1.2},
				{Text: "下单", Weight: 1.2},
				{Text: "福利", Weight: 1.2},
			},
			Patterns: []Pattern{
				{Expr: `\d+(\.\d+)?折`, Weight: 1.5, Description: "discount figure"},
				{Expr: `(点击|扫码)[^，。]{0,6}(链接|二维码|购买)`, Weight: 1.5, Description: "call to action"},
			},
			MinScore: 2.0,
		},
		{
			Name:     "闲聊/日常",
			Category: "casual",
			Keywords: []Keyword{
				{Text: "今天", Weight: 0.8},
				{Text: "天气", Weight: 1.2},
				{Text: "周末", Weight: 1.2},
				{Text: "下班", Weight: 1.2},
			},
			Features: FeaturePredicates{
				MaxLength:       60,
				ExcludeFeatures: []string{textfeat.FeatureTechnical},
			},
			MinScore: 1.5,
		},
	}
}
