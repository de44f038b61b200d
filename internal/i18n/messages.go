package i18n

// Builtin 返回内置文案的副本（用于初始化翻译表）
func Builtin() map[string]map[string]string {
	out := make(map[string]map[string]string, len(builtin))
	for lang, entries := range builtin {
		copied := make(map[string]string, len(entries))
		for key, value := range entries {
			copied[key] = value
		}
		out[lang] = copied
	}
	return out
}

var builtin = map[string]map[string]string{
	LocaleEN: {
		"success":                       "OK",
		"payment.pending":               "Payment is pending. The logo will appear after the payment is confirmed.",
		"payment.completed":             "Payment confirmed.",
		"review.pending":                "Your review has been submitted and will be visible after payment confirmation.",
		"error.bad_request":             "Invalid request.",
		"error.unauthorized":            "Please sign in.",
		"error.forbidden":               "Access denied.",
		"error.not_found":               "Not found.",
		"error.internal":                "Something went wrong. Please try again later.",
		"error.too_many_requests":       "Too many requests. Please try again later.",
		"error.rate_limited":            "Too many requests. Please try again in %d seconds.",
		"error.token_invalid":           "Your session has expired. Please sign in again.",
		"error.project_not_found":       "Project not found.",
		"error.project_inactive":        "Reviews can only be left for published projects.",
		"error.review_not_found":        "Review not found.",
		"error.payment_not_found":       "Payment not found.",
		"error.entity_not_pending":      "This item is not waiting for payment.",
		"error.entity_not_paid":         "This logo has not been paid yet.",
		"error.dashboard_fetch_failed":  "Dashboard data could not be loaded.",
		"error.payment_update_failed":   "Payment could not be processed.",
		"error.webhook_forbidden":       "Invalid webhook secret.",
		"error.webhook_payload_invalid": "Invalid webhook payload.",
		"error.name_invalid":            "Project name must be between 2 and 100 characters.",
		"error.website_invalid":         "Please enter a valid website URL.",
		"error.telegram_invalid":        "Please enter a valid Telegram username.",
		"error.logo_required":           "Please upload a logo.",
		"error.logo_too_large":          "The logo file is too large.",
		"error.logo_type_invalid":       "Unsupported logo format. Use PNG, JPEG, GIF or SVG.",
		"error.logo_dimension_invalid":  "The logo dimensions are too large.",
		"error.author_invalid":          "Name must be between 2 and 100 characters.",
		"error.rating_invalid":          "Rating must be between 1 and 5.",
		"error.comment_too_long":        "The comment is too long.",
		"error.login_invalid":           "Invalid username or password.",
		"error.account_locked":          "Too many failed attempts. Please try again later.",
		"error.account_inactive":        "This account is disabled.",
		"error.captcha_invalid":         "Invalid captcha.",
		"error.captcha_required":        "Please enter the captcha.",
		"error.username_invalid":        "Username must be 3-32 letters, digits or underscores.",
		"error.username_exists":         "This username is already taken.",
		"error.email_invalid":           "Please enter a valid email address.",
		"error.email_exists":            "This email is already in use.",
		"error.password_weak":           "Password must be at least %d characters long and contain letters and digits.",
		"error.role_invalid":            "Unknown role.",
		"error.cannot_modify_self":      "You cannot perform this action on your own account.",
		"error.user_not_found":          "User not found.",
		"error.site_name_required":      "Site name is required.",
		"error.admin_email_invalid":     "Please enter a valid admin email address.",
		"error.price_invalid":           "Prices must be greater than zero.",
		"error.lang_invalid":            "Unsupported language.",
		"error.translation_invalid":     "Language, key and value are required.",
		"error.translation_not_found":   "Translation not found.",
		"error.backup_not_found":        "Backup not found.",
		"error.backup_name_invalid":     "Invalid backup file name.",
		"error.queue_unavailable":       "Background jobs are unavailable.",
	},
	LocaleRU: {
		"success":                       "OK",
		"payment.pending":               "Ожидается оплата. Логотип появится после подтверждения платежа.",
		"payment.completed":             "Оплата подтверждена.",
		"review.pending":                "Ваш отзыв отправлен и появится после подтверждения оплаты.",
		"error.bad_request":             "Некорректный запрос.",
		"error.unauthorized":            "Пожалуйста, войдите в систему.",
		"error.forbidden":               "Доступ запрещён.",
		"error.not_found":               "Не найдено.",
		"error.internal":                "Что-то пошло не так. Попробуйте позже.",
		"error.too_many_requests":       "Слишком много запросов. Попробуйте позже.",
		"error.rate_limited":            "Слишком много запросов. Повторите через %d сек.",
		"error.token_invalid":           "Сессия истекла. Войдите снова.",
		"error.project_not_found":       "Проект не найден.",
		"error.project_inactive":        "Отзывы можно оставлять только для опубликованных проектов.",
		"error.review_not_found":        "Отзыв не найден.",
		"error.payment_not_found":       "Платёж не найден.",
		"error.entity_not_pending":      "Эта запись не ожидает оплаты.",
		"error.entity_not_paid":         "Этот логотип ещё не оплачен.",
		"error.dashboard_fetch_failed":  "Не удалось загрузить данные панели.",
		"error.payment_update_failed":   "Не удалось обработать платёж.",
		"error.webhook_forbidden":       "Неверный секрет webhook.",
		"error.webhook_payload_invalid": "Некорректные данные webhook.",
		"error.name_invalid":            "Название проекта должно содержать от 2 до 100 символов.",
		"error.website_invalid":         "Укажите корректный адрес сайта.",
		"error.telegram_invalid":        "Укажите корректное имя пользователя Telegram.",
		"error.logo_required":           "Загрузите логотип.",
		"error.logo_too_large":          "Файл логотипа слишком большой.",
		"error.logo_type_invalid":       "Неподдерживаемый формат. Используйте PNG, JPEG, GIF или SVG.",
		"error.logo_dimension_invalid":  "Размеры логотипа слишком большие.",
		"error.author_invalid":          "Имя должно содержать от 2 до 100 символов.",
		"error.rating_invalid":          "Оценка должна быть от 1 до 5.",
		"error.comment_too_long":        "Комментарий слишком длинный.",
		"error.login_invalid":           "Неверное имя пользователя или пароль.",
		"error.account_locked":          "Слишком много неудачных попыток. Попробуйте позже.",
		"error.account_inactive":        "Учётная запись отключена.",
		"error.captcha_invalid":         "Неверная капча.",
		"error.captcha_required":        "Введите капчу.",
		"error.username_invalid":        "Имя пользователя: 3-32 латинские буквы, цифры или подчёркивания.",
		"error.username_exists":         "Это имя пользователя уже занято.",
		"error.email_invalid":           "Укажите корректный email.",
		"error.email_exists":            "Этот email уже используется.",
		"error.password_weak":           "Пароль должен содержать не менее %d символов, буквы и цифры.",
		"error.role_invalid":            "Неизвестная роль.",
		"error.cannot_modify_self":      "Нельзя выполнить это действие со своей учётной записью.",
		"error.user_not_found":          "Пользователь не найден.",
		"error.site_name_required":      "Название сайта обязательно.",
		"error.admin_email_invalid":     "Укажите корректный email администратора.",
		"error.price_invalid":           "Цены должны быть больше нуля.",
		"error.lang_invalid":            "Язык не поддерживается.",
		"error.translation_invalid":     "Язык, ключ и значение обязательны.",
		"error.translation_not_found":   "Перевод не найден.",
		"error.backup_not_found":        "Резервная копия не найдена.",
		"error.backup_name_invalid":     "Некорректное имя файла резервной копии.",
		"error.queue_unavailable":       "Фоновые задачи недоступны.",
	},
	LocaleUK: {
		"success":                       "OK",
		"payment.pending":               "Очікується оплата. Логотип з'явиться після підтвердження платежу.",
		"payment.completed":             "Оплату підтверджено.",
		"review.pending":                "Ваш відгук надіслано, він з'явиться після підтвердження оплати.",
		"error.bad_request":             "Некоректний запит.",
		"error.unauthorized":            "Будь ласка, увійдіть.",
		"error.forbidden":               "Доступ заборонено.",
		"error.not_found":               "Не знайдено.",
		"error.internal":                "Щось пішло не так. Спробуйте пізніше.",
		"error.too_many_requests":       "Забагато запитів. Спробуйте пізніше.",
		"error.rate_limited":            "Забагато запитів. Повторіть через %d сек.",
		"error.token_invalid":           "Сесія закінчилася. Увійдіть знову.",
		"error.project_not_found":       "Проєкт не знайдено.",
		"error.project_inactive":        "Відгуки можна залишати лише для опублікованих проєктів.",
		"error.review_not_found":        "Відгук не знайдено.",
		"error.payment_not_found":       "Платіж не знайдено.",
		"error.entity_not_pending":      "Цей запис не очікує оплати.",
		"error.entity_not_paid":         "Цей логотип ще не оплачено.",
		"error.dashboard_fetch_failed":  "Не вдалося завантажити дані панелі.",
		"error.payment_update_failed":   "Не вдалося обробити платіж.",
		"error.webhook_forbidden":       "Невірний секрет webhook.",
		"error.webhook_payload_invalid": "Некоректні дані webhook.",
		"error.name_invalid":            "Назва проєкту має містити від 2 до 100 символів.",
		"error.website_invalid":         "Вкажіть коректну адресу сайту.",
		"error.telegram_invalid":        "Вкажіть коректне ім'я користувача Telegram.",
		"error.logo_required":           "Завантажте логотип.",
		"error.logo_too_large":          "Файл логотипу завеликий.",
		"error.logo_type_invalid":       "Непідтримуваний формат. Використовуйте PNG, JPEG, GIF або SVG.",
		"error.logo_dimension_invalid":  "Розміри логотипу завеликі.",
		"error.author_invalid":          "Ім'я має містити від 2 до 100 символів.",
		"error.rating_invalid":          "Оцінка має бути від 1 до 5.",
		"error.comment_too_long":        "Коментар задовгий.",
		"error.login_invalid":           "Невірне ім'я користувача або пароль.",
		"error.account_locked":          "Забагато невдалих спроб. Спробуйте пізніше.",
		"error.account_inactive":        "Обліковий запис вимкнено.",
		"error.captcha_invalid":         "Невірна капча.",
		"error.captcha_required":        "Введіть капчу.",
		"error.username_invalid":        "Ім'я користувача: 3-32 латинські літери, цифри або підкреслення.",
		"error.username_exists":         "Це ім'я користувача вже зайняте.",
		"error.email_invalid":           "Вкажіть коректний email.",
		"error.email_exists":            "Цей email вже використовується.",
		"error.password_weak":           "Пароль має містити щонайменше %d символів, літери та цифри.",
		"error.role_invalid":            "Невідома роль.",
		"error.cannot_modify_self":      "Не можна виконати цю дію зі своїм обліковим записом.",
		"error.user_not_found":          "Користувача не знайдено.",
		"error.site_name_required":      "Назва сайту обов'язкова.",
		"error.admin_email_invalid":     "Вкажіть коректний email адміністратора.",
		"error.price_invalid":           "Ціни мають бути більшими за нуль.",
		"error.lang_invalid":            "Мова не підтримується.",
		"error.translation_invalid":     "Мова, ключ і значення обов'язкові.",
		"error.translation_not_found":   "Переклад не знайдено.",
		"error.backup_not_found":        "Резервну копію не знайдено.",
		"error.backup_name_invalid":     "Некоректна назва файлу резервної копії.",
		"error.queue_unavailable":       "Фонові завдання недоступні.",
	},
}
