package taxonomy

// Built-in fraud lexicon. The phrase sets target Chinese-language scam
// wording; hosts can extend or override them with LoadDir and
// AddCustomPhrases. Weights are calibration defaults, not verified-optimal
// parameters.

func defaultCategories() []*Category {
	return []*Category{
		{
			ID:     "divination",
			Name:   "fortune-telling fraud",
			Weight: 25,
			Phrases: []string{
				"占卜", "算命", "看相", "风水", "塔罗牌", "水晶球", "紫微斗数",
				"八字", "面相", "手相", "星座运势", "命理", "预测未来", "改运",
				"转运", "消灾", "破财免灾", "大师", "神算", "仙人指路", "开光",
				"法事", "做法", "符咒", "护身符", "招财", "辟邪", "化解",
				"桃花运", "财运", "事业运", "学业运", "健康运", "婚姻运",
			},
			Advice: "Fortune-telling offers are superstition bait, treat them rationally",
		},
		{
			ID:     "investment",
			Name:   "investment fraud",
			Weight: 30,
			Phrases: []string{
				"投资", "理财", "炒股", "期货", "外汇", "数字货币", "比特币",
				"稳赚不赔", "保本保息", "高收益", "低风险", "内幕消息", "庄家",
				"拉升", "涨停", "翻倍", "暴利", "一夜暴富", "躺赚", "被动收入",
				"资金盘", "传销币", "空气币", "割韭菜", "接盘", "套牢",
				"融资融券", "配资", "杠杆", "爆仓", "强平", "追加保证金",
			},
			Advice: "Invest only through licensed financial institutions",
		},
		{
			ID:     "shopping",
			Name:   "online shopping fraud",
			Weight: 20,
			Phrases: []string{
				"刷单", "兼职", "代购", "海淘", "直播带货", "限时抢购",
				"秒杀", "清仓", "亏本甩卖", "厂家直销", "一折", "免费送",
				"货到付款", "先付定金", "预付款", "保证金", "激活费",
				"快递到付", "包邮", "七天无理由", "假一赔十", "正品保证",
			},
		},
		{
			ID:     "romance",
			Name:   "romance fraud",
			Weight: 25,
			Phrases: []string{
				"交友", "征婚", "相亲", "单身", "寂寞", "空虚", "陪伴",
				"真爱", "缘分", "命中注定", "一见钟情", "白头偕老", "永远爱你",
				"出国", "签证", "机票", "住院", "手术费", "救命钱", "急用钱",
				"家人生病", "车祸", "意外", "困难", "帮忙", "借钱", "周转",
			},
			Advice: "Verify identities before trusting online relationships",
		},
		{
			ID:     "identity",
			Name:   "impersonation fraud",
			Weight: 35,
			Phrases: []string{
				"公安局", "检察院", "法院", "警察", "办案", "传唤", "逮捕令",
				"洗钱", "涉案", "冻结", "查封", "配合调查", "清白", "证明",
				"银行", "客服", "升级", "维护", "验证", "身份证", "银行卡",
				"密码", "验证码", "短信", "链接", "网址", "下载", "APP",
				"中奖", "恭喜", "幸运", "抽奖", "奖金", "税费", "手续费",
				"快递", "包裹", "签收", "派件", "地址", "联系方式",
			},
			Advice: "Authorities never demand transfers over the phone",
		},
		{
			ID:     "parttime",
			Name:   "part-time job fraud",
			Weight: 20,
			Phrases: []string{
				"兼职", "副业", "在家赚钱", "轻松赚钱", "日赚", "月入",
				"打字员", "录入员", "客服", "推广", "拉人头", "下线",
				"会员费", "培训费", "材料费", "押金", "保证金", "入会费",
				"刷好评", "刷信誉", "刷流量", "点赞", "关注", "转发",
			},
		},
		{
			ID:     "charity",
			Name:   "fake charity fraud",
			Weight: 15,
			Phrases: []string{
				"慈善", "捐款", "救助", "贫困", "失学", "重病", "天灾",
				"爱心", "善款", "募捐", "基金会", "公益", "志愿者",
				"转账", "汇款", "支付宝", "微信", "银行账户",
			},
		},
	}
}

// Sensitive-action wording: transfers, credentials, secrecy, escrow bait.
var defaultSensitivePhrases = []string{
	"转账", "汇款", "打款", "付款", "收款", "到账", "提现",
	"银行卡号", "账号", "密码", "验证码", "身份证号",
	"紧急", "急用", "马上", "立即", "赶紧", "快点",
	"保密", "不要告诉别人", "删除记录", "清空聊天",
	"安全账户", "资金监管", "第三方托管", "担保交易",
}

// Time-pressure wording.
var defaultUrgencyPhrases = []string{
	"今天", "明天", "现在", "立刻", "马上", "赶紧", "抓紧",
	"最后一天", "截止", "过期", "失效", "错过", "机会难得",
}
