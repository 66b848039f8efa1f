package shared

// Keys used against the shared store. They are part of the cross-process
// contract and must not change between versions.
const (
	KeyStreak           = "widget_streak"
	KeyTodayPoints      = "widget_todayPoints"
	KeyTotalWords       = "widget_totalWords"
	KeyLessonsCompleted = "widget_lessonsCompleted"
	KeyLastUpdate       = "widget_lastUpdate"
	KeyWordOfDay        = "widget_wordOfTheDay"
	KeyWordOfDayDate    = "widget_wordOfTheDayDate"
)
