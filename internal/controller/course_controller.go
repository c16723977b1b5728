package controller

import (
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	EnrollmentService *service.EnrollmentService
}

func NewCourseController(enrollmentService *service.EnrollmentService) *CourseController {
	return &CourseController{EnrollmentService: enrollmentService}
}

// Enroll godoc
// @Summary 选课
// @Description 只能选择已发布的课程，重复选课直接返回成功
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response "已选过"
// @Success 201 {object} util.Response "选课成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 422 {object} util.Response "课程未发布"
// @Router /api/courses/{courseId}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := util.ParamUint(ctx, "courseId")
	if !ok {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	created, err := c.EnrollmentService.Enroll(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	data := gin.H{"courseId": courseID, "enrolled": true}
	if created {
		util.Created(ctx, data)
		return
	}
	util.Success(ctx, data)
}

// Leaderboard godoc
// @Summary 课程排行榜
// @Description 按标准测验总分排序
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=service.Leaderboard} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/teacher/courses/{courseId}/leaderboard [get]
func (c *CourseController) Leaderboard(ctx *gin.Context) {
	courseID, ok := util.ParamUint(ctx, "courseId")
	if !ok {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	board, err := c.EnrollmentService.Leaderboard(ctx.Request.Context(), courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, board)
}

// ExportLeaderboard godoc
// @Summary 导出排行榜 CSV
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 201 {object} util.Response{data=service.ExportResult} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/teacher/courses/{courseId}/leaderboard/export [post]
func (c *CourseController) ExportLeaderboard(ctx *gin.Context) {
	courseID, ok := util.ParamUint(ctx, "courseId")
	if !ok {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	res, err := c.EnrollmentService.ExportLeaderboard(ctx.Request.Context(), courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// ResetProgress godoc
// @Summary 重置课程进度
// @Description 不带 userId 时重置所有学生
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param userId path int false "学生ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/teacher/courses/{courseId}/progress [delete]
// @Router /api/teacher/courses/{courseId}/progress/{userId} [delete]
func (c *CourseController) ResetProgress(ctx *gin.Context) {
	courseID, ok := util.ParamUint(ctx, "courseId")
	if !ok {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	var userID uint
	if ctx.Param("userId") != "" {
		userID, ok = util.ParamUint(ctx, "userId")
		if !ok {
			util.BadRequest(ctx, "无效的学生ID")
			return
		}
	}

	n, err := c.EnrollmentService.ResetProgress(ctx.Request.Context(), courseID, userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": n})
}
