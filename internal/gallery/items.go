package gallery

// Gallery categories.
const (
	CategoryExterior   = "exterior"
	CategoryInterior   = "interior"
	CategoryNature     = "nature"
	CategoryExperience = "experience"
)

// DefaultItems returns the plan gallery shown on the plans page.
func DefaultItems() []Item {
	return []Item{
		{ID: "plan-01", Category: CategoryExterior, Title: "八ヶ岳を望むヴィラ外観", Height: 320},
		{ID: "plan-02", Category: CategoryInterior, Title: "薪ストーブのあるリビング", Height: 240},
		{ID: "plan-03", Category: CategoryNature, Title: "朝霧の高原", Height: 280},
		{ID: "plan-04", Category: CategoryExperience, Title: "星空観察ナイト", Height: 360},
		{ID: "plan-05", Category: CategoryExterior, Title: "ウッドデッキとテラス", Height: 260},
		{ID: "plan-06", Category: CategoryInterior, Title: "和モダンの寝室", Height: 300},
		{ID: "plan-07", Category: CategoryNature, Title: "紅葉の散策路", Height: 340},
		{ID: "plan-08", Category: CategoryExperience, Title: "高原野菜の収穫体験", Height: 220},
		{ID: "plan-09", Category: CategoryExterior, Title: "雪景色のキャビン", Height: 300},
		{ID: "plan-10", Category: CategoryInterior, Title: "アイランドキッチン", Height: 260},
		{ID: "plan-11", Category: CategoryNature, Title: "富士見の丘からの夕景", Height: 380},
		{ID: "plan-12", Category: CategoryExperience, Title: "焚き火とBBQ", Height: 240},
		{ID: "plan-13", Category: CategoryExterior, Title: "森に囲まれたドーム", Height: 280},
		{ID: "plan-14", Category: CategoryInterior, Title: "ロフト付きツインルーム", Height: 320},
		{ID: "plan-15", Category: CategoryNature, Title: "渓流と新緑", Height: 260},
		{ID: "plan-16", Category: CategoryExperience, Title: "サイクリングツアー", Height: 300},
	}
}
