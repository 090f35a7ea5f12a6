package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// successIdx сигнализирует, что штатное закрытие дошло до конца списка.
const successIdx = -1

// Func — функция освобождения одного ресурса.
type Func func(ctx context.Context) error

// Closer накапливает функции освобождения ресурсов и закрывает их
// в обратном порядке регистрации при остановке приложения.
type Closer struct {
	funcs         []Func
	mu            sync.Mutex
	once          sync.Once
	forcedTimeout time.Duration
}

// NewCloser возвращает Closer. forcedTimeout ограничивает вторую,
// принудительную фазу закрытия; ноль заменяется значением по умолчанию.
func NewCloser(forcedTimeout time.Duration) *Closer {
	const (
		defaultForcedTimeout = 2 * time.Second
	)

	if forcedTimeout == 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{
		forcedTimeout: forcedTimeout,
	}
}

// Add регистрирует функцию закрытия. Потокобезопасен.
func (c *Closer) Add(f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f)
}

// Close закрывает зарегистрированные ресурсы в порядке LIFO.
// Не уложившиеся в контекст ресурсы дозакрываются принудительно,
// уже параллельно и со своим таймаутом. Повторные вызовы — no-op.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.mu.Unlock()

		stopIdx, errors := c.gracefulClose(ctx, funcs)
		if stopIdx == successIdx { // штатная фаза прошла весь список
			if len(errors) > 0 {
				err = fmt.Errorf("shutdown finished with error(s):\n%s", strings.Join(errors, "\n"))
			}

			return
		}

		// контекст истёк раньше — оставшиеся ресурсы закрываем принудительно
		remaining := funcs[:stopIdx+1]
		forcedErrs := c.forcedClose(remaining)
		errors = append(errors, forcedErrs...)

		err = fmt.Errorf(
			"shutdown interrupted after %d/%d funcs:\n%s",
			len(funcs)-1-stopIdx,
			len(funcs),
			strings.Join(errors, "\n"),
		)
	})

	return err
}

// gracefulClose обходит funcs с конца, дожидаясь каждую функцию.
// При отмене контекста возвращает индекс первой недошедшей функции;
// successIdx означает, что список пройден целиком.
func (c *Closer) gracefulClose(ctx context.Context, funcs []Func) (int, []string) {
	var errors []string
	for i := len(funcs) - 1; i >= 0; i-- {
		var (
			f    = funcs[i]
			done = make(chan error, 1)
		)

		go func() {
			done <- f(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errors = append(errors, fmt.Sprintf("[!] %v", err))
			}
		case <-ctx.Done():
			return i, errors
		}
	}

	return successIdx, errors
}

// forcedClose запускает оставшиеся функции одновременно под forcedTimeout.
func (c *Closer) forcedClose(funcs []Func) []string {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errors []string
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, f := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				mu.Lock()
				errors = append(errors, fmt.Sprintf("[FORCED] %v", err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errors
}
