package textfeat

// PartOfSpeech is the closed tag vocabulary used by the tokenizer.
type PartOfSpeech string

const (
	POSNoun        PartOfSpeech = "noun"
	POSVerb        PartOfSpeech = "verb"
	POSAdjective   PartOfSpeech = "adjective"
	POSAdverb      PartOfSpeech = "adverb"
	POSPronoun     PartOfSpeech = "pronoun"
	POSPreposition PartOfSpeech = "preposition"
	POSConjunction PartOfSpeech = "conjunction"
	POSAuxiliary   PartOfSpeech = "auxiliary"
	POSNumeral     PartOfSpeech = "numeral"
	POSClassifier  PartOfSpeech = "classifier"
	POSPunctuation PartOfSpeech = "punctuation"
	POSEnglish     PartOfSpeech = "english"
	POSTime        PartOfSpeech = "time"
	POSDirection   PartOfSpeech = "direction"
	POSOther       PartOfSpeech = "other"
)

// lexicon drives greedy longest-match segmentation of CJK runs. Entries
// are capped at maxLexiconWordLen runes.
const maxLexiconWordLen = 4

var lexicon = map[string]PartOfSpeech{
	// nouns
	"机器学习": POSNoun, "人工智能": POSNoun, "深度学习": POSNoun, "神经网络": POSNoun,
	"大模型": POSNoun, "算法": POSNoun, "模型": POSNoun, "数据": POSNoun, "数据库": POSNoun,
	"准确率": POSNoun, "区块链": POSNoun, "代码": POSNoun, "程序": POSNoun, "框架": POSNoun,
	"前端": POSNoun, "后端": POSNoun, "云计算": POSNoun, "开源": POSNoun, "接口": POSNoun,
	"教程": POSNoun, "步骤": POSNoun, "方法": POSNoun, "入门": POSNoun, "实战": POSNoun,
	"新闻": POSNoun, "事件": POSNoun, "消息": POSNoun, "报道": POSNoun, "官方": POSNoun,
	"研究": POSNoun, "论文": POSNoun, "实验": POSNoun, "结果": POSNoun, "效果": POSNoun,
	"经历": POSNoun, "经验": POSNoun, "心得": POSNoun, "感悟": POSNoun, "成长": POSNoun,
	"总结": POSNoun, "观点": POSNoun, "评论": POSNoun, "问题": POSNoun, "内容": POSNoun,
	"文章": POSNoun, "视频": POSNoun, "图片": POSNoun, "链接": POSNoun, "二维码": POSNoun,
	"朋友": POSNoun, "公司": POSNoun, "产品": POSNoun, "技术": POSNoun, "行业": POSNoun,
	"工作": POSNoun, "生活": POSNoun, "时间": POSNoun, "天气": POSNoun, "优惠": POSNoun,
	"折扣": POSNoun, "福利": POSNoun, "价格": POSNoun, "工具": POSNoun, "项目": POSNoun,
	// verbs
	"学习": POSVerb, "学会": POSVerb, "掌握": POSVerb, "使用": POSVerb, "尝试": POSVerb,
	"体验": POSVerb, "发布": POSVerb, "宣布": POSVerb, "提升": POSVerb, "提高": POSVerb,
	"降低": POSVerb, "下降": POSVerb, "增长": POSVerb, "实现": POSVerb, "完成": POSVerb,
	"开始": POSVerb, "结束": POSVerb, "分享": POSVerb, "推荐": POSVerb, "购买": POSVerb,
	"下单": POSVerb, "测试": POSVerb, "分析": POSVerb, "觉得": POSVerb, "认为": POSVerb,
	"希望": POSVerb, "喜欢": POSVerb, "坚持": POSVerb, "求助": POSVerb, "请问": POSVerb,
	"点击": POSVerb, "扫码": POSVerb, "感觉": POSVerb, "遇到": POSVerb, "解决": POSVerb,
	// adjectives
	"简单": POSAdjective, "复杂": POSAdjective, "重要": POSAdjective, "有效": POSAdjective,
	"免费": POSAdjective, "优秀": POSAdjective, "强大": POSAdjective, "高效": POSAdjective,
	"方便": POSAdjective, "好用": POSAdjective, "限时": POSAdjective,
	// adverbs
	"非常": POSAdverb, "特别": POSAdverb, "真的": POSAdverb, "终于": POSAdverb,
	"已经": POSAdverb, "刚刚": POSAdverb, "马上": POSAdverb, "其实": POSAdverb,
	"怎么": POSAdverb, "为什么": POSAdverb,
	// pronouns
	"我们": POSPronoun, "你们": POSPronoun, "他们": POSPronoun, "大家": POSPronoun,
	"自己": POSPronoun, "什么": POSPronoun, "这个": POSPronoun, "那个": POSPronoun,
	// time words
	"今天": POSTime, "昨天": POSTime, "明天": POSTime, "现在": POSTime,
	"最近": POSTime, "今年": POSTime, "去年": POSTime, "今日": POSTime, "昨日": POSTime,
	// other common words the segmenter should keep whole
	"你好": POSOther, "谢谢": POSOther, "有没有": POSVerb, "手把手": POSAdverb,
}

// singleCharPOS tags the single-character fallbacks of the segmenter.
// Characters not listed here default to POSOther.
var singleCharPOS = map[rune]PartOfSpeech{
	'我': POSPronoun, '你': POSPronoun, '他': POSPronoun, '她': POSPronoun, '它': POSPronoun,
	'的': POSAuxiliary, '了': POSAuxiliary, '着': POSAuxiliary, '过': POSAuxiliary,
	'吗': POSAuxiliary, '呢': POSAuxiliary, '吧': POSAuxiliary, '啊': POSAuxiliary,
	'和': POSConjunction, '与': POSConjunction, '但': POSConjunction, '或': POSConjunction,
	'在': POSPreposition, '从': POSPreposition, '对': POSPreposition, '把': POSPreposition,
	'上': POSDirection, '下': POSDirection, '前': POSDirection, '后': POSDirection,
	'里': POSDirection, '外': POSDirection, '中': POSDirection,
	'个': POSClassifier, '条': POSClassifier, '件': POSClassifier, '次': POSClassifier,
	'年': POSTime, '月': POSTime, '日': POSTime, '天': POSTime,
	'学': POSVerb, '做': POSVerb, '看': POSVerb, '写': POSVerb, '吃': POSVerb, '去': POSVerb,
	'好': POSAdjective, '新': POSAdjective, '大': POSAdjective, '小': POSAdjective,
	'高': POSAdjective, '低': POSAdjective, '快': POSAdjective, '慢': POSAdjective,
	'很': POSAdverb, '都': POSAdverb, '也': POSAdverb, '就': POSAdverb, '还': POSAdverb,
}

// domainDict marks terms that indicate technical content. Membership
// raises token weight and flips the HasTechnicalTerms feature.
var domainDict = map[string]bool{
	"机器学习": true, "人工智能": true, "深度学习": true, "神经网络": true, "大模型": true,
	"算法": true, "模型": true, "数据": true, "数据库": true, "准确率": true,
	"区块链": true, "代码": true, "框架": true, "前端": true, "后端": true,
	"云计算": true, "开源": true, "接口": true, "编程": true, "架构": true,
	"ai": true, "api": true, "gpu": true, "llm": true, "python": true,
	"golang": true, "docker": true, "kubernetes": true, "sql": true, "github": true,
}

// stopWords are removed from the token stream after segmentation.
var stopWords = map[string]bool{
	"的": true, "了": true, "着": true, "过": true, "是": true, "在": true,
	"和": true, "与": true, "也": true, "都": true, "就": true, "又": true,
	"还": true, "被": true, "把": true, "吗": true, "呢": true, "吧": true,
	"啊": true, "哦": true, "嗯": true, "这": true, "那": true,
	"这个": true, "那个": true, "一个": true,
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "to": true, "of": true, "and": true, "or": true,
	"in": true, "on": true, "at": true, "for": true, "with": true, "it": true,
	"this": true, "that": true, "as": true, "by": true,
}

// sentiment lexicons back the informational sentiment partition. They
// are deliberately small; callers must not treat the partition as a
// calibrated sentiment signal.
var positiveWords = map[string]bool{
	"好": true, "棒": true, "赞": true, "优秀": true, "喜欢": true, "成功": true,
	"提升": true, "提高": true, "进步": true, "开心": true, "满意": true,
	"强大": true, "高效": true, "好用": true, "推荐": true, "终于": true,
}

var negativeWords = map[string]bool{
	"差": true, "烂": true, "糟糕": true, "失败": true, "讨厌": true, "问题": true,
	"错误": true, "崩溃": true, "失望": true, "难受": true, "坑": true, "降低": true,
}
