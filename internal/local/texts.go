// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package local

var (
	Greeting = NewSet(
		"Здравствуйте! Я Suai Rag Bot - ваш университетский помощник. Могу ответить на вопросы о расписании, учебных материалах, преподавателях и многом другом.",
		NewTrans(Eng, "Hello! I'm Suai Rag Bot, your university assistant. I can answer questions about schedules, study materials, teachers and much more."),
	)

	InputPlaceholder = NewSet("Задайте вопрос...", NewTrans(Eng, "Ask a question..."))
	Thinking         = NewSet("Ищу ответ...", NewTrans(Eng, "Looking for an answer..."))
	You              = NewSet("Вы", NewTrans(Eng, "You"))
	Bot              = NewSet("Suai Rag Bot")
	Sources          = NewSet("Источники", NewTrans(Eng, "Sources"))
	Images           = NewSet("Изображения", NewTrans(Eng, "Images"))

	StatsLine    = NewSet("Вопросов: %d · Ответов: %d", NewTrans(Eng, "Questions: %d · Answers: %d"))
	SessionNone  = NewSet("новая сессия", NewTrans(Eng, "new session"))
	SessionLabel = NewSet("Сессия", NewTrans(Eng, "Session"))
	UserLabel    = NewSet("Пользователь", NewTrans(Eng, "User"))

	ErrorPrefix    = NewSet("Ошибка", NewTrans(Eng, "Error"))
	SendFailed     = NewSet("Не удалось отправить сообщение: %s", NewTrans(Eng, "Failed to send message: %s"))
	LoadFailed     = NewSet("Не удалось загрузить историю: %s", NewTrans(Eng, "Failed to load history: %s"))
	DeleteFailed   = NewSet("Не удалось удалить историю: %s", NewTrans(Eng, "Failed to delete history: %s"))
	SessionStarted = NewSet("Начата новая сессия", NewTrans(Eng, "Started a new session"))
	HistoryDeleted = NewSet("История удалена (%d сообщ.)", NewTrans(Eng, "History deleted (%d messages)"))
	HistoryLoaded  = NewSet("Загружено сообщений: %d", NewTrans(Eng, "Loaded %d messages"))
	ConfirmDelete  = NewSet("Удалить историю текущей сессии? (y/N) ", NewTrans(Eng, "Delete the history of the current session? (y/N) "))
	ThemeSwitched  = NewSet("Тема: %s", NewTrans(Eng, "Theme: %s"))
	Goodbye        = NewSet("До свидания!", NewTrans(Eng, "Goodbye!"))

	QuickHint = NewSet("Быстрые вопросы", NewTrans(Eng, "Quick questions"))
	KeysHelp  = NewSet(
		"enter отправить · ctrl+n новая сессия · ctrl+x удалить историю · ctrl+r обновить · ctrl+t тема · alt+1..5 быстрые вопросы · esc выход",
		NewTrans(Eng, "enter send · ctrl+n new session · ctrl+x delete history · ctrl+r reload · ctrl+t theme · alt+1..5 quick questions · esc quit"),
	)
)

var quickActionTitles = map[int]TextSet{
	1: NewSet("Расписание", NewTrans(Eng, "Schedule")),
	2: NewSet("Экзамены", NewTrans(Eng, "Exams")),
	3: NewSet("Стипендии", NewTrans(Eng, "Scholarships")),
	4: NewSet("Общежития", NewTrans(Eng, "Dormitories")),
	5: NewSet("Библиотека", NewTrans(Eng, "Library")),
}

// QuickActionTitle returns the localized title of a quick action, falling
// back to def for unknown ids.
func QuickActionTitle(language Language, id int, def string) string {
	if set, ok := quickActionTitles[id]; ok {
		return set.Text(language)
	}
	return def
}
