package main

import (
	"log"

	"quiz-platform-backend/internal/config"
	"quiz-platform-backend/internal/database"
	"quiz-platform-backend/internal/handlers"
	"quiz-platform-backend/internal/kvstore"
	"quiz-platform-backend/internal/middleware"
	"quiz-platform-backend/internal/services"
	"quiz-platform-backend/internal/tasks"

	_ "quiz-platform-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Quiz Platform API
// @version         1.0
// @description     API for company quiz management with timed attempts and score tracking
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	redisClient := database.ConnectRedis(cfg)
	store := kvstore.NewRedis(redisClient)

	runner := tasks.NewRunner(64)
	runner.Start()
	defer runner.Stop()

	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.GoogleClientID)
	userService := services.NewUserService(db)
	companyService := services.NewCompanyService(db)
	inviteService := services.NewInviteService(db, companyService, userService)
	quizService := services.NewQuizService(db, companyService)
	scoreService := services.NewScoreService(db)
	attemptService := services.NewAttemptService(db, store, quizService, scoreService, runner)

	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	quizHandler := handlers.NewQuizHandler(quizService)
	questionHandler := handlers.NewQuestionHandler(quizService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)

	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google", authHandler.GoogleLogin)

			me := auth.Group("/me")
			me.Use(middleware.JWTAuth(authService))
			{
				me.GET("", authHandler.Me)
				me.GET("/invitations", inviteHandler.MyInvitations)
				me.GET("/requests", inviteHandler.MyRequests)
			}
		}

		users := api.Group("/users")
		users.Use(middleware.JWTAuth(authService))
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		companies := api.Group("/companies")
		companies.Use(middleware.JWTAuth(authService))
		{
			companies.POST("", companyHandler.CreateCompany)
			companies.GET("", companyHandler.ListCompanies)
			companies.GET("/:id", companyHandler.GetCompany)
			companies.PATCH("/:id", companyHandler.UpdateCompany)
			companies.DELETE("/:id", companyHandler.DeleteCompany)

			companies.GET("/:id/members", companyHandler.ListMembers)
			companies.DELETE("/:id/members/:user_id", companyHandler.KickMember)
			companies.DELETE("/:id/leave", companyHandler.LeaveCompany)
			companies.GET("/:id/admins", companyHandler.ListAdmins)
			companies.POST("/:id/admins/:user_id", companyHandler.PromoteAdmin)
			companies.DELETE("/:id/admins/:user_id", companyHandler.DemoteAdmin)

			companies.POST("/:id/invitations", inviteHandler.InviteUser)
			companies.GET("/:id/invitations", inviteHandler.CompanyInvitations)
			companies.POST("/:id/requests", inviteHandler.RequestMembership)
			companies.GET("/:id/requests", inviteHandler.CompanyRequests)

			companies.GET("/:id/quizzes", quizHandler.ListCompanyQuizzes)
			companies.POST("/:id/quizzes", quizHandler.CreateQuiz)
		}

		invitations := api.Group("/invitations")
		invitations.Use(middleware.JWTAuth(authService))
		{
			invitations.POST("/:id/accept", inviteHandler.AcceptInvitation)
			invitations.POST("/:id/decline", inviteHandler.DeclineInvitation)
			invitations.POST("/:id/cancel", inviteHandler.CancelInvitation)
		}

		requests := api.Group("/requests")
		requests.Use(middleware.JWTAuth(authService))
		{
			requests.POST("/:id/accept", inviteHandler.AcceptRequest)
			requests.POST("/:id/decline", inviteHandler.DeclineRequest)
			requests.POST("/:id/cancel", inviteHandler.CancelRequest)
		}

		quizzes := api.Group("/quizzes")
		quizzes.Use(middleware.JWTAuth(authService))
		{
			quizzes.GET("/:id", quizHandler.GetQuiz)
			quizzes.PATCH("/:id", quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
			quizzes.POST("/:id/questions", questionHandler.CreateQuestion)
			quizzes.POST("/:id/attempt/start", attemptHandler.StartAttempt)
		}

		questions := api.Group("/questions")
		questions.Use(middleware.JWTAuth(authService))
		{
			questions.PATCH("/:id", questionHandler.UpdateQuestion)
			questions.DELETE("/:id", questionHandler.DeleteQuestion)
			questions.POST("/:id/answers", questionHandler.CreateAnswer)
		}

		answers := api.Group("/answers")
		answers.Use(middleware.JWTAuth(authService))
		{
			answers.PATCH("/:id", questionHandler.UpdateAnswer)
			answers.DELETE("/:id", questionHandler.DeleteAnswer)
		}

		attempts := api.Group("/attempts")
		attempts.Use(middleware.JWTAuth(authService))
		{
			attempts.GET("", attemptHandler.ListAttempts)
			attempts.POST("/:id/answer-question/:question_id/:answer_id", attemptHandler.AnswerQuestion)
			attempts.POST("/:id/complete", attemptHandler.CompleteAttempt)
			attempts.GET("/:id/answers", attemptHandler.GetAttemptResults)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
