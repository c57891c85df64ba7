package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tiffinbox/tiffin_go_server/config"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/database"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/email"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/queue"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	emailQueue := queue.NewQueue(rdb, cfg.Queue.EmailQueue)
	emailService := email.NewService(&cfg.Email)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Printf("Email worker started, max workers: %d", cfg.Queue.MaxWorkers)

	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					job, err := emailQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop job: %v", workerID, err)
						continue
					}

					if job == nil {
						continue // 超时，继续等待
					}

					if err := process(emailService, job); err != nil {
						log.Printf("Worker %d: email to %s failed: %v", workerID, job.To, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}

func process(emailService *email.Service, job *queue.EmailJob) error {
	switch job.Type {
	case queue.EmailTypeWelcome:
		return emailService.SendWelcome(job.To, job.UserName)
	case queue.EmailTypeSubscription:
		return emailService.SendSubscriptionConfirmed(job.To, job.UserName, job.PlanName, job.EndDate)
	default:
		log.Printf("Unknown email job type: %s", job.Type)
		return nil
	}
}
