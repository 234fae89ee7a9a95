package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"servicom/backend/internal/config"
	"servicom/backend/internal/identity"
	"servicom/backend/internal/models"
	"servicom/backend/internal/notify"
	"servicom/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func usage() {
	fmt.Println(`Usage: admin <command> [args]

Commands:
  add-department <name> [notify_emails_csv] [telegram_chat_id]
  list-departments
  delete-department <id>
  set-role <username> <citizen|staff>
  assign-department <username> <department_id>
  deactivate <username>
  reactivate <username>`)
	os.Exit(1)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	db, err := gorm.Open(postgres.Open(config.DatabaseDSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: config.RedisAddr()})
	storageSvc := storage.NewStorageService(db, rdb)

	// Reactivation sends a notification when the broker is reachable.
	trigger := &notify.Trigger{Feed: storageSvc}
	if url := config.AMQPURL(); url != "" {
		publisher, err := notify.NewRabbitPublisher(url)
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, notifications skipped: %v", err)
		} else {
			trigger.Publisher = publisher
			defer publisher.Close()
		}
	}
	identitySvc := identity.NewService(storageSvc, trigger)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "add-department":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin add-department <name> [notify_emails_csv] [telegram_chat_id]")
			os.Exit(1)
		}
		dept := &models.Department{Name: os.Args[2]}
		if len(os.Args) > 3 && os.Args[3] != "" {
			dept.NotifyEmails = pq.StringArray(strings.Split(os.Args[3], ","))
		}
		if len(os.Args) > 4 {
			chatID, err := strconv.ParseInt(os.Args[4], 10, 64)
			if err != nil {
				fmt.Println("Invalid telegram chat id. Please provide an integer.")
				os.Exit(1)
			}
			dept.TelegramChatID = chatID
		}
		if err := storageSvc.CreateDepartment(dept); err != nil {
			log.Fatalf("Error creating department: %v", err)
		}
		fmt.Printf("Department %q created with id %d.\n", dept.Name, dept.ID)

	case "list-departments":
		depts, err := storageSvc.ListDepartments()
		if err != nil {
			log.Fatalf("Error listing departments: %v", err)
		}
		for _, d := range depts {
			fmt.Printf("%d\t%s\t%s\n", d.ID, d.Name, strings.Join(d.NotifyEmails, ","))
		}

	case "delete-department":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete-department <id>")
			os.Exit(1)
		}
		id, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid department id. Please provide an integer.")
			os.Exit(1)
		}
		if err := storageSvc.DeleteDepartment(uint(id)); err != nil {
			log.Fatalf("Error deleting department: %v", err)
		}
		fmt.Printf("Department %d deleted; its complaints are now unassigned.\n", id)

	case "set-role":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin set-role <username> <citizen|staff>")
			os.Exit(1)
		}
		role := models.Role(os.Args[3])
		if !role.Known() {
			fmt.Printf("Unknown role %q.\n", os.Args[3])
			os.Exit(1)
		}
		user, err := storageSvc.GetUserByUsername(os.Args[2])
		if err != nil {
			log.Fatalf("Error loading user: %v", err)
		}
		user.Role = role
		if err := storageSvc.UpdateUser(user); err != nil {
			log.Fatalf("Error updating user: %v", err)
		}
		fmt.Printf("User %s is now %s.\n", user.Username, role)

	case "assign-department":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin assign-department <username> <department_id>")
			os.Exit(1)
		}
		deptID, err := strconv.Atoi(os.Args[3])
		if err != nil {
			fmt.Println("Invalid department id. Please provide an integer.")
			os.Exit(1)
		}
		if _, err := storageSvc.GetDepartmentByID(uint(deptID)); err != nil {
			log.Fatalf("Error loading department: %v", err)
		}
		user, err := storageSvc.GetUserByUsername(os.Args[2])
		if err != nil {
			log.Fatalf("Error loading user: %v", err)
		}
		profile, err := storageSvc.EnsureProfile(user.ID)
		if err != nil {
			log.Fatalf("Error loading profile: %v", err)
		}
		id := uint(deptID)
		profile.DepartmentID = &id
		if err := storageSvc.UpdateProfile(profile); err != nil {
			log.Fatalf("Error updating profile: %v", err)
		}
		fmt.Printf("User %s assigned to department %d.\n", user.Username, deptID)

	case "deactivate":
		user, err := userArg(storageSvc)
		if err != nil {
			log.Fatalf("Error loading user: %v", err)
		}
		if err := identitySvc.Deactivate(user.ID); err != nil {
			log.Fatalf("Error deactivating user: %v", err)
		}
		fmt.Printf("User %s has been deactivated.\n", user.Username)

	case "reactivate":
		user, err := userArg(storageSvc)
		if err != nil {
			log.Fatalf("Error loading user: %v", err)
		}
		if _, err := identitySvc.Reactivate(user.ID); err != nil {
			log.Fatalf("Error reactivating user: %v", err)
		}
		fmt.Printf("User %s has been reactivated.\n", user.Username)

	default:
		usage()
	}
}

func userArg(s storage.Storage) (*models.User, error) {
	if len(os.Args) != 3 {
		fmt.Printf("Usage: admin %s <username>\n", os.Args[1])
		os.Exit(1)
	}
	return s.GetUserByUsername(os.Args[2])
}
